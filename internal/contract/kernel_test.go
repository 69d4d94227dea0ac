package contract

import (
	"testing"

	"github.com/relcc/tcengine/internal/arith"
)

func TestGemmRealAccumulates(t *testing.T) {
	arith.Reset()
	a := View{Rows: 2, Cols: 2, DataR: []float64{1, 0, 0, 1}} // identity
	b := View{Rows: 2, Cols: 2, DataR: []float64{1, 2, 3, 4}}
	c := View{Rows: 2, Cols: 2, DataR: make([]float64, 4)}
	GemmReal(1, a, b, c)
	want := []float64{1, 3, 2, 4} // A * B^T with A=I -> B^T
	for i := range want {
		if c.DataR[i] != want[i] {
			t.Fatalf("c[%d] = %v, want %v", i, c.DataR[i], want[i])
		}
	}
}

func TestWorkerPoolRunsAllTasks(t *testing.T) {
	pool := NewWorkerPool(4)
	n := 20
	var tasks []Task
	for i := 0; i < n; i++ {
		tasks = append(tasks, Task{})
	}
	pool.Run(tasks, func(Task) {})
	if pool.Completed() != n {
		t.Fatalf("expected %d completed, got %d", n, pool.Completed())
	}
}
