// Command tacalloc is a small CLI front end over package tacalloc. It reads
// a textual IR program (the format produced by ir.Instr.String), runs one
// of the two allocation strategies or the reference interpreter against
// it, and writes the result to stdout. The subcommand logic lives in plain
// doAllocate/doRun functions that take the input reader and output writer
// explicitly, the way wazero's own cmd/wazero separates its doXxx functions
// from main, so it can be tested without spawning a process.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/regalloc-lab/tacalloc/interp"
	"github.com/regalloc-lab/tacalloc/ir"
	"github.com/regalloc-lab/tacalloc/regalloc"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "tacalloc",
		Short:         "Register allocator for a small three-address IR",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
				regalloc.LoggingEnabled = true
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable allocator trace logging")

	root.AddCommand(
		newTrivialCmd(stdin, stdout),
		newColoringCmd(stdin, stdout),
		newRunCmd(stdin, stdout),
	)

	return root
}

func newTrivialCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "trivial [file]",
		Short: "Allocate registers with the trivial spill-everything strategy",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doAllocate(cmd, args, stdin, stdout, k, regalloc.AllocateTrivial)
		},
	}
	cmd.Flags().IntVarP(&k, "registers", "k", 4, "number of physical registers (K >= 4)")

	return cmd
}

func newColoringCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "coloring [file]",
		Short: "Allocate registers with Chaitin-style graph coloring",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doAllocate(cmd, args, stdin, stdout, k, regalloc.AllocateColoring)
		},
	}
	cmd.Flags().IntVarP(&k, "registers", "k", 4, "number of physical registers (K >= 4)")

	return cmd
}

func newRunCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Interpret a program (typically the output of trivial/coloring)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRun(args, stdin, stdout, k)
		},
	}
	cmd.Flags().IntVarP(&k, "registers", "k", 4, "size of the register file")

	return cmd
}

type allocateFunc func(ir.Program, int) (ir.Program, error)

func doAllocate(cmd *cobra.Command, args []string, stdin io.Reader, stdout io.Writer, k int, allocate allocateFunc) error {
	in, err := openInput(args, stdin)
	if err != nil {
		return err
	}
	defer closeIfFile(in)

	prog, err := parseProgram(in)
	if err != nil {
		return fmt.Errorf("parsing program: %w", err)
	}

	out, err := allocate(prog, k)
	if err != nil {
		return fmt.Errorf("allocating registers: %w", err)
	}

	_, err = fmt.Fprint(stdout, out.String())

	return err
}

func doRun(args []string, stdin io.Reader, stdout io.Writer, k int) error {
	in, err := openInput(args, stdin)
	if err != nil {
		return err
	}
	defer closeIfFile(in)

	prog, err := parseProgram(in)
	if err != nil {
		return fmt.Errorf("parsing program: %w", err)
	}

	return interp.Run(prog, k, stdout)
}

func openInput(args []string, stdin io.Reader) (io.Reader, error) {
	if len(args) == 0 {
		return stdin, nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", args[0], err)
	}

	return f, nil
}

func closeIfFile(r io.Reader) {
	if f, ok := r.(*os.File); ok {
		_ = f.Close()
	}
}
