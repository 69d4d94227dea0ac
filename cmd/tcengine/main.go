// Command tcengine drives a single symmetry-blocked tensor-engine run from
// an archive file of spinor/symmetry data plus flat integral record files,
// wiring the integral, sorting, engine and effham packages end to end.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relcc/tcengine/internal/block"
	"github.com/relcc/tcengine/internal/diagram"
	"github.com/relcc/tcengine/internal/effham"
	"github.com/relcc/tcengine/internal/engine"
	"github.com/relcc/tcengine/internal/errs"
	"github.com/relcc/tcengine/internal/logx"
	"github.com/relcc/tcengine/internal/options"
	"github.com/relcc/tcengine/internal/sorting"
	"github.com/relcc/tcengine/internal/spinor"
	"github.com/relcc/tcengine/internal/storage"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tcengine",
		Short: "Symmetry-blocked tensor engine for Fock-space multireference coupled-cluster runs",
	}

	var archivePath string
	var twoElectronPath string
	var oneElectronPath string
	var scratchDir string
	var tileSize int
	var diskLevel int
	var maxIter int
	var convThreshold float64
	var verbose bool

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Sort integrals from an archive and raw record files, then drive one MP2-style correction step",
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logx.Init(os.Stderr, slog.LevelDebug)
			}
			return runMP2(archivePath, twoElectronPath, oneElectronPath, scratchDir, tileSize, diskLevel, maxIter, convThreshold)
		},
	}
	runCmd.Flags().StringVar(&archivePath, "archive", "", "tcengine archive file (symmetry + spinor catalogue)")
	runCmd.Flags().StringVar(&twoElectronPath, "two-electron", "", "flat two-electron integral record file")
	runCmd.Flags().StringVar(&oneElectronPath, "one-electron", "", "flat one-electron integral record file")
	runCmd.Flags().StringVar(&scratchDir, "scratch", "./scratch", "scratch directory for on-disk blocks")
	runCmd.Flags().IntVar(&tileSize, "tile-size", 100, "maximum spinors per spinor block")
	runCmd.Flags().IntVar(&diskLevel, "disk-level", 0, "disk usage level 0-4 (see storage.Level)")
	runCmd.Flags().IntVar(&maxIter, "max-iter", 50, "maximum iteration count (unused by the MP2 smoke path, carried for future CC drivers)")
	runCmd.Flags().Float64Var(&convThreshold, "conv-threshold", 1e-9, "convergence threshold (unused by the MP2 smoke path)")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")
	runCmd.MarkFlagRequired("archive")

	rootCmd.AddCommand(runCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMP2(archivePath, twoElectronPath, oneElectronPath, scratchDir string, tileSize, diskLevel int, maxIter int, convThreshold float64) (err error) {
	defer func() {
		if code, recovered := errs.Recover(); recovered {
			err = fmt.Errorf("tcengine: aborted (exit %d)", code)
		}
	}()

	src := sorting.NewFromArchive(archivePath)
	sym, serr := src.SymmetryTable()
	if serr != nil {
		return fmt.Errorf("reading symmetry table: %w", serr)
	}
	spins, serr := src.Spinors()
	if serr != nil {
		return fmt.Errorf("reading spinor catalogue: %w", serr)
	}
	coreEnergy, serr := src.CoreEnergy()
	if serr != nil {
		return fmt.Errorf("reading core energy: %w", serr)
	}
	cat := spinor.Build(spins, tileSize)

	opts := options.Default()
	opts.ScratchDir = scratchDir
	opts.DiskUsageLevel = storage.Level(diskLevel)
	opts.TileSize = tileSize
	opts.MaxIter = maxIter
	opts.ConvThreshold = convThreshold

	c := engine.NewContext(sym, cat, opts)
	logx.Default().Infof("run %s: %d spinors, %d irreps, core energy %.10f", c.RunID, cat.NSpinors(), sym.NIrreps(), coreEnergy)

	hh := []spinor.QPart{spinor.Hole, spinor.Hole}
	pp := []spinor.QPart{spinor.Particle, spinor.Particle}
	hhpp := []spinor.QPart{spinor.Hole, spinor.Hole, spinor.Particle, spinor.Particle}
	anyAny2 := []block.Valence{block.AnyActivity, block.AnyActivity}
	anyAny4 := []block.Valence{block.AnyActivity, block.AnyActivity, block.AnyActivity, block.AnyActivity}

	fockHH := c.Template("fock_hh", hh, anyAny2, nil, []int{1, 2}, sym.TotallySymmetric(), true)
	fockPP := c.Template("fock_pp", pp, anyAny2, nil, []int{1, 2}, sym.TotallySymmetric(), true)
	vHHPP := c.Template("v_hhpp", hhpp, anyAny4, nil, []int{1, 2, 3, 4}, sym.TotallySymmetric(), true)

	sorter := &sorting.RawSorter{Cat: cat}

	if twoElectronPath != "" {
		records, rerr := readTwoElectronRecords(twoElectronPath)
		if rerr != nil {
			return fmt.Errorf("reading two-electron records: %w", rerr)
		}
		targets := map[string]*diagram.Diagram{"v_hhpp": vHHPP}
		if err := sorter.SortTwoElectron(records, targets); err != nil {
			return fmt.Errorf("sorting two-electron integrals: %w", err)
		}
	}
	if oneElectronPath != "" {
		records, rerr := readOneElectronRecords(oneElectronPath)
		if rerr != nil {
			return fmt.Errorf("reading one-electron records: %w", rerr)
		}
		if err := sorter.SortOneElectron(records, fockHH, nil); err != nil {
			return fmt.Errorf("building fock_hh: %w", err)
		}
		if err := sorter.SortOneElectron(records, fockPP, nil); err != nil {
			return fmt.Errorf("building fock_pp: %w", err)
		}
	}

	t2 := c.Copy(vHHPP, "t2")
	c.Diveps(t2)
	correlation := 0.25 * real(c.ScalarProduct(false, false, vHHPP, t2))

	// Cross-check the MP2 correlation sum through the general contraction
	// engine rather than ScalarProduct alone: fully contracting t2 against
	// v_hhpp (ncontr = rank) degenerates to the same dense inner product
	// per the mult/scalar_product contraction identity.
	full := c.Mult(t2, vHHPP, t2.Rank, "mult_check")
	var fullContraction complex128
	for _, blk := range full.Blocks {
		if blk.Storage == storage.Dummy {
			continue
		}
		if blk.DataComplex() != nil {
			fullContraction += blk.GetComplex(nil)
		} else {
			fullContraction += complex(blk.GetReal(nil), 0)
		}
	}
	logx.Default().Infof("mult full-contraction check: %.10f (0.25x = correlation %.10f)", real(fullContraction), 0.25*real(fullContraction))

	summary := vHHPP.Summary(16)
	logx.Default().Infof("v_hhpp blocks: %d total, %d in-memory, %d on-disk, %d dummy",
		summary.TotalBlocks, summary.InMemory, summary.OnDisk, summary.Dummy)
	fmt.Printf("core energy:        % .10f\n", coreEnergy)
	fmt.Printf("MP2 correlation:    % .10f\n", correlation)
	fmt.Printf("total estimate:     % .10f\n", coreEnergy+correlation)

	solver := effham.DenseSolver{}
	heff := solver.BuildHeff(1, func(p, q int) complex128 { return complex(coreEnergy+correlation, 0) })
	energies, _, derr := solver.Diagonalize(heff)
	if derr != nil {
		return fmt.Errorf("diagonalizing effective hamiltonian: %w", derr)
	}
	fmt.Printf("effective energy:   % .10f\n", real(energies[0]))
	return nil
}

func readTwoElectronRecords(path string) ([]sorting.TwoElectronRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []sorting.TwoElectronRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return nil, fmt.Errorf("malformed two-electron record %q", line)
		}
		i, _ := strconv.Atoi(fields[0])
		j, _ := strconv.Atoi(fields[1])
		k, _ := strconv.Atoi(fields[2])
		l, _ := strconv.Atoi(fields[3])
		v, _ := strconv.ParseFloat(fields[4], 64)
		out = append(out, sorting.TwoElectronRecord{I: i, J: j, K: k, L: l, Value: complex(v, 0)})
	}
	return out, sc.Err()
}

func readOneElectronRecords(path string) ([]sorting.OneElectronRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []sorting.OneElectronRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("malformed one-electron record %q", line)
		}
		p, _ := strconv.Atoi(fields[0])
		q, _ := strconv.Atoi(fields[1])
		v, _ := strconv.ParseFloat(fields[2], 64)
		out = append(out, sorting.OneElectronRecord{P: p, Q: q, Value: complex(v, 0)})
	}
	return out, sc.Err()
}
