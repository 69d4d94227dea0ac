// Copyright ©2019 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package native is a pure-Go implementation of the three LAPACK entry
// points the effective-Hamiltonian solver needs. It plays the role the
// cgo/external-LAPACK implementations play in a production build: callers
// that want a vendor LAPACK (MKL, OpenBLAS's LAPACKE) swap it in behind
// the same lapack.Complex128 interface via clapack128.Use.
package native

import (
	"math"
	"math/cmplx"

	"github.com/relcc/tcengine/lapack"
)

// Implementation is the default, pure-Go LAPACK implementation.
type Implementation struct{}

var _ lapack.Complex128 = Implementation{}

// Zgetrf computes the LU factorization of the m×n complex matrix a by
// Gaussian elimination with partial pivoting. a is overwritten with L
// (unit lower triangular, diagonal implicit) below the diagonal and U
// (upper triangular, including the diagonal) on and above it.
func (Implementation) Zgetrf(m, n int, a []complex128, lda int, ipiv []int) bool {
	size := m
	if n < size {
		size = n
	}
	ok := true
	for k := 0; k < size; k++ {
		pivot := k
		best := cmplx.Abs(a[k*lda+k])
		for i := k + 1; i < m; i++ {
			if v := cmplx.Abs(a[i*lda+k]); v > best {
				best, pivot = v, i
			}
		}
		ipiv[k] = pivot
		if best == 0 {
			ok = false
			continue
		}
		if pivot != k {
			for j := 0; j < n; j++ {
				a[k*lda+j], a[pivot*lda+j] = a[pivot*lda+j], a[k*lda+j]
			}
		}
		pv := a[k*lda+k]
		for i := k + 1; i < m; i++ {
			factor := a[i*lda+k] / pv
			a[i*lda+k] = factor
			for j := k + 1; j < n; j++ {
				a[i*lda+j] -= factor * a[k*lda+j]
			}
		}
	}
	return ok
}

// Zgetri computes the inverse of the n×n matrix from its LU factorization
// (a, ipiv, as computed by Zgetrf) by solving A*X = I columnwise: apply
// the recorded pivots to each column of the identity, then forward- and
// back-substitute against L and U. This is the textbook LU-based route to
// the same result LAPACK's blocked in-place Zgetri produces.
func (Implementation) Zgetri(n int, a []complex128, lda int, ipiv []int) ([]complex128, bool) {
	for i := 0; i < n; i++ {
		if a[i*lda+i] == 0 {
			return nil, false
		}
	}

	x := make([]complex128, n*n)
	for i := 0; i < n; i++ {
		x[i*n+i] = 1
	}
	for k := 0; k < n; k++ {
		if p := ipiv[k]; p != k {
			for j := 0; j < n; j++ {
				x[k*n+j], x[p*n+j] = x[p*n+j], x[k*n+j]
			}
		}
	}
	for i := 0; i < n; i++ {
		for k := 0; k < i; k++ {
			factor := a[i*lda+k]
			if factor == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				x[i*n+j] -= factor * x[k*n+j]
			}
		}
	}
	for i := n - 1; i >= 0; i-- {
		for k := i + 1; k < n; k++ {
			factor := a[i*lda+k]
			if factor == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				x[i*n+j] -= factor * x[k*n+j]
			}
		}
		diag := a[i*lda+i]
		for j := 0; j < n; j++ {
			x[i*n+j] /= diag
		}
	}
	return x, true
}

// Zgeev computes the eigenvalues of the n×n complex matrix a by reducing
// it to upper Hessenberg form via Householder reflections, then running
// the shifted QR algorithm (Rayleigh-quotient shift, subdiagonal
// deflation) on the Hessenberg form until every subdiagonal entry
// collapses below tol relative to its neighboring diagonal entries. The
// similarity transform accumulated across both stages is returned in vr;
// it equals the eigenvector basis exactly when a is normal, and is only
// an approximation otherwise, the same caveat a general (non-Hermitian)
// complex eigensolver carries regardless of implementation.
func (Implementation) Zgeev(n int, a []complex128, lda int, w []complex128, vr []complex128, ldvr int, maxSweeps int, tol float64) bool {
	h := make([]complex128, n*n)
	for i := 0; i < n; i++ {
		copy(h[i*n:i*n+n], a[i*lda:i*lda+n])
	}
	q := make([]complex128, n*n)
	for i := 0; i < n; i++ {
		q[i*n+i] = 1
	}

	hessenberg(n, h, q)
	ok := hessenbergQR(n, h, q, maxSweeps, tol)

	for i := 0; i < n; i++ {
		w[i] = h[i*n+i]
	}
	if vr != nil {
		for i := 0; i < n; i++ {
			copy(vr[i*ldvr:i*ldvr+n], q[i*n:i*n+n])
		}
	}
	return ok
}

// hessenberg reduces the n×n matrix a to upper Hessenberg form in place
// via Householder reflections, accumulating the similarity transform into
// q (which must enter as the identity).
func hessenberg(n int, a, q []complex128) {
	for k := 0; k < n-2; k++ {
		var normx float64
		for i := k + 1; i < n; i++ {
			normx += real(a[i*n+k])*real(a[i*n+k]) + imag(a[i*n+k])*imag(a[i*n+k])
		}
		normx = math.Sqrt(normx)
		if normx == 0 {
			continue
		}

		x0 := a[(k+1)*n+k]
		phase := complex(1, 0)
		if ax0 := cmplx.Abs(x0); ax0 != 0 {
			phase = x0 / complex(ax0, 0)
		}
		beta := -phase * complex(normx, 0)

		v := make([]complex128, n)
		v[k+1] = x0 - beta
		for i := k + 2; i < n; i++ {
			v[i] = a[i*n+k]
		}
		var vnorm float64
		for i := k + 1; i < n; i++ {
			vnorm += real(v[i])*real(v[i]) + imag(v[i])*imag(v[i])
		}
		vnorm = math.Sqrt(vnorm)
		if vnorm == 0 {
			continue
		}
		for i := k + 1; i < n; i++ {
			v[i] /= complex(vnorm, 0)
		}

		applyHouseholderLeft(n, a, v, k+1)
		applyHouseholderRight(n, a, v, k+1)
		applyHouseholderRight(n, q, v, k+1)
	}
}

// applyHouseholderLeft applies A := H*A for H = I - 2*v*v^H, touching rows
// [start,n) across every column.
func applyHouseholderLeft(n int, a, v []complex128, start int) {
	for j := 0; j < n; j++ {
		var s complex128
		for i := start; i < n; i++ {
			s += cmplx.Conj(v[i]) * a[i*n+j]
		}
		s *= 2
		for i := start; i < n; i++ {
			a[i*n+j] -= v[i] * s
		}
	}
}

// applyHouseholderRight applies A := A*H for H = I - 2*v*v^H, touching
// columns [start,n) across every row.
func applyHouseholderRight(n int, a, v []complex128, start int) {
	for i := 0; i < n; i++ {
		var s complex128
		for j := start; j < n; j++ {
			s += a[i*n+j] * v[j]
		}
		s *= 2
		for j := start; j < n; j++ {
			a[i*n+j] -= s * cmplx.Conj(v[j])
		}
	}
}

// hessenbergQR runs the shifted QR algorithm on the n×n upper Hessenberg
// matrix h, deflating converged trailing blocks and accumulating the
// rotations applied into q. It reports whether every block converged
// within maxSweeps iterations (counted per active block size, reset on
// every deflation).
func hessenbergQR(n int, h, q []complex128, maxSweeps int, tol float64) bool {
	if tol <= 0 {
		tol = 1e-10
	}
	if maxSweeps <= 0 {
		maxSweeps = 500
	}

	m := n
	lastM := m
	sweeps := 0
	for m > 1 {
		if m != lastM {
			sweeps = 0
			lastM = m
		}

		sub := cmplx.Abs(h[(m-1)*n+(m-2)])
		scale := cmplx.Abs(h[(m-2)*n+(m-2)]) + cmplx.Abs(h[(m-1)*n+(m-1)])
		if scale == 0 {
			scale = 1
		}
		if sub <= tol*scale {
			h[(m-1)*n+(m-2)] = 0
			m--
			continue
		}

		sweeps++
		if sweeps > maxSweeps {
			return false
		}

		shift := h[(m-1)*n+(m-1)]
		for i := 0; i < m; i++ {
			h[i*n+i] -= shift
		}

		cs := make([]float64, m-1)
		sn := make([]complex128, m-1)
		for k := 0; k < m-1; k++ {
			c, s, r := givens(h[k*n+k], h[(k+1)*n+k])
			cs[k], sn[k] = c, s
			applyGivensLeft(n, h, k, c, s)
			h[k*n+k] = r
			h[(k+1)*n+k] = 0
		}
		for k := 0; k < m-1; k++ {
			applyGivensRight(n, h, k, cs[k], sn[k])
			applyGivensRight(n, q, k, cs[k], sn[k])
		}

		for i := 0; i < m; i++ {
			h[i*n+i] += shift
		}
	}
	return true
}

// givens computes c (real) and s (complex) with c^2+|s|^2 = 1 such that
// the 2×2 rotation [[c, s], [-conj(s), c]] maps (p, q) to (r, 0).
func givens(p, q complex128) (c float64, s, r complex128) {
	if q == 0 {
		return 1, 0, p
	}
	if p == 0 {
		return 0, 1, q
	}
	absp := cmplx.Abs(p)
	d := math.Hypot(absp, cmplx.Abs(q))
	c = absp / d
	s = (p / complex(absp, 0)) * cmplx.Conj(q) / complex(d, 0)
	r = p * complex(d/absp, 0)
	return c, s, r
}

// applyGivensLeft rotates rows i, i+1 of the n×n matrix a (every column):
// [row_i; row_i+1] := [[c, s], [-conj(s), c]] * [row_i; row_i+1].
func applyGivensLeft(n int, a []complex128, i int, c float64, s complex128) {
	for j := 0; j < n; j++ {
		x := a[i*n+j]
		y := a[(i+1)*n+j]
		a[i*n+j] = complex(c, 0)*x + s*y
		a[(i+1)*n+j] = -cmplx.Conj(s)*x + complex(c, 0)*y
	}
}

// applyGivensRight rotates columns i, i+1 of the n×n matrix a (every row)
// by the conjugate-transpose rotation, completing the similarity update:
// [col_i col_i+1] := [col_i col_i+1] * [[c, -s], [conj(s), c]].
func applyGivensRight(n int, a []complex128, i int, c float64, s complex128) {
	for r := 0; r < n; r++ {
		x := a[r*n+i]
		y := a[r*n+i+1]
		a[r*n+i] = complex(c, 0)*x + cmplx.Conj(s)*y
		a[r*n+i+1] = -s*x + complex(c, 0)*y
	}
}
