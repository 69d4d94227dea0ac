package storage

import (
	"encoding/binary"
	"math"
)

func float64sToBytes(data []float64) []byte {
	out := make([]byte, 8*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(v))
	}
	return out
}

func bytesToFloat64s(raw []byte) []float64 {
	out := make([]float64, len(raw)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return out
}

func complex128sToBytes(data []complex128) []byte {
	out := make([]byte, 16*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint64(out[i*16:], math.Float64bits(real(v)))
		binary.LittleEndian.PutUint64(out[i*16+8:], math.Float64bits(imag(v)))
	}
	return out
}

func bytesToComplex128s(raw []byte) []complex128 {
	out := make([]complex128, len(raw)/16)
	for i := range out {
		re := math.Float64frombits(binary.LittleEndian.Uint64(raw[i*16:]))
		im := math.Float64frombits(binary.LittleEndian.Uint64(raw[i*16+8:]))
		out[i] = complex(re, im)
	}
	return out
}
