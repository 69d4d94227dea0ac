package contract

import (
	"encoding/binary"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// CUDABinaryPath is the external GPU GEMM server binary. Override before
// calling NewCUDAWorker if the binary lives elsewhere; when CUDA is
// disabled in Options, nothing in this file is invoked.
var CUDABinaryPath = "cuda/tcgemm"

// CUDAWorker drives a long-running GPU GEMM server process over a pipe
// protocol: each request writes dimensions and operands, the response
// reads back the accumulated product. It is the optional drop-in
// replacement for Contract's host GEMM, with explicit host<->device
// transfers happening inside the external process.
type CUDAWorker struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	mu     sync.Mutex
}

// NewCUDAWorker starts the GPU GEMM server.
func NewCUDAWorker() (*CUDAWorker, error) {
	cmd := exec.Command(CUDABinaryPath, "--server")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("contract: cuda stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("contract: cuda stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("contract: cuda start %s: %w", CUDABinaryPath, err)
	}
	return &CUDAWorker{cmd: cmd, stdin: stdin, stdout: stdout}, nil
}

// cudaHeader is the fixed-size request preamble: m, n, k dimensions and a
// flag for real (0) vs complex (1) operands.
type cudaHeader struct {
	M, N, K uint32
	Complex uint32
}

// GemmReal sends a real GEMM request to the GPU server and reads the
// accumulated m x n result back in place into c.
func (w *CUDAWorker) GemmReal(alpha float64, a, b View, c View) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hdr := cudaHeader{M: uint32(a.Rows), N: uint32(b.Rows), K: uint32(a.Cols), Complex: 0}
	if err := binary.Write(w.stdin, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("contract: cuda write header: %w", err)
	}
	if err := binary.Write(w.stdin, binary.LittleEndian, alpha); err != nil {
		return fmt.Errorf("contract: cuda write alpha: %w", err)
	}
	if err := binary.Write(w.stdin, binary.LittleEndian, a.DataR); err != nil {
		return fmt.Errorf("contract: cuda write A: %w", err)
	}
	if err := binary.Write(w.stdin, binary.LittleEndian, b.DataR); err != nil {
		return fmt.Errorf("contract: cuda write B: %w", err)
	}
	if err := binary.Write(w.stdin, binary.LittleEndian, c.DataR); err != nil {
		return fmt.Errorf("contract: cuda write C: %w", err)
	}
	if err := binary.Read(w.stdout, binary.LittleEndian, c.DataR); err != nil {
		return fmt.Errorf("contract: cuda read result: %w", err)
	}
	return nil
}

// Close terminates the GPU server process.
func (w *CUDAWorker) Close() error {
	w.stdin.Close()
	w.stdout.Close()
	return w.cmd.Wait()
}
