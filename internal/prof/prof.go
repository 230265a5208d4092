// Package prof wires pprof CPU and heap profiles to command line flags.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Session is an active profiling session.
type Session struct {
	cpu     *os.File
	memPath string
}

// Start begins CPU profiling into cpuPath and remembers memPath for the heap
// profile written by Stop. Empty paths disable the respective profile.
func Start(cpuPath, memPath string) (*Session, error) {
	s := &Session{memPath: memPath}
	if cpuPath == "" {
		return s, nil
	}
	f, err := os.Create(cpuPath)
	if err != nil {
		return nil, fmt.Errorf("cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("cpu profile: %w", err)
	}
	s.cpu = f
	return s, nil
}

// Stop finishes the CPU profile and writes the heap profile.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.cpu != nil {
		pprof.StopCPUProfile()
		if err := s.cpu.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cpu profile: %w", err))
		}
		s.cpu = nil
	}
	if s.memPath != "" {
		if err := WriteMem(s.memPath); err != nil {
			errs = append(errs, fmt.Errorf("mem profile: %w", err))
		}
		s.memPath = ""
	}
	return errors.Join(errs...)
}

// WriteMem writes a heap profile to path after a GC.
func WriteMem(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
