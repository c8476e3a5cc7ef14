// Zaparoo Launcher
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Launcher.
//
// Zaparoo Launcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Launcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Launcher.  If not, see <http://www.gnu.org/licenses/>.

// Package launchers holds the execution backends that start games for the
// session manager: native processes and app-mode browser windows.
package launchers

import (
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
)

const (
	// SIGTERMTimeout is how long to wait for graceful SIGTERM shutdown.
	SIGTERMTimeout = 3 * time.Second
	// SIGKILLTimeout is how long to wait after SIGKILL before proceeding.
	SIGKILLTimeout = 500 * time.Millisecond
)

// processHandle tracks a spawned process tree. Done closes when the root
// process exits.
type processHandle struct {
	proc    *os.Process
	clock   clockwork.Clock
	done    chan struct{}
	cleanup func()
}

func newProcessHandle(proc *os.Process, clock clockwork.Clock, cleanup func()) *processHandle {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	h := &processHandle{
		proc:    proc,
		clock:   clock,
		done:    make(chan struct{}),
		cleanup: cleanup,
	}
	go h.wait()
	return h
}

func (h *processHandle) wait() {
	state, err := h.proc.Wait()
	if err != nil {
		log.Debug().Err(err).Int("pid", h.proc.Pid).Msg("error waiting on process")
	} else {
		log.Debug().Int("pid", h.proc.Pid).Int("code", state.ExitCode()).Msg("process exited")
	}
	if h.cleanup != nil {
		h.cleanup()
	}
	close(h.done)
}

func (h *processHandle) Done() <-chan struct{} {
	return h.done
}

// Terminate sends SIGTERM to the whole process tree, children first, and
// escalates to SIGKILL if the root hasn't exited within SIGTERMTimeout.
func (h *processHandle) Terminate() error {
	select {
	case <-h.done:
		return nil
	default:
	}

	pid := int32(h.proc.Pid) //nolint:gosec // PID fits in int32
	procs := getProcessTree(pid)
	if len(procs) == 0 {
		log.Debug().Int32("pid", pid).Msg("process not found, may have already exited")
		if err := h.proc.Kill(); err != nil {
			log.Debug().Err(err).Int32("pid", pid).Msg("failed to kill process")
		}
	} else {
		log.Debug().Int("count", len(procs)).Int32("rootPid", pid).Msg("terminating process tree")
		terminateProcessTree(procs)

		if !h.waitForExit(SIGTERMTimeout) {
			log.Debug().Msg("SIGTERM timeout, sending SIGKILL")
			killProcessTree(procs)
		}
	}

	select {
	case <-h.done:
		log.Debug().Int32("pid", pid).Msg("process exited")
	case <-h.clock.After(SIGKILLTimeout):
		log.Debug().Int32("pid", pid).Msg("process cleanup timeout, proceeding anyway")
	}
	return nil
}

func (h *processHandle) waitForExit(timeout time.Duration) bool {
	select {
	case <-h.done:
		return true
	case <-h.clock.After(timeout):
		return false
	}
}

// getProcessTree returns the process and all its descendants, with
// descendants ordered before their parents.
func getProcessTree(pid int32) []*process.Process {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return nil
	}

	descendants := getAllDescendants(proc)
	result := make([]*process.Process, 0, len(descendants)+1)
	result = append(result, descendants...)
	result = append(result, proc)
	return result
}

func getAllDescendants(proc *process.Process) []*process.Process {
	children, err := proc.Children()
	if err != nil || len(children) == 0 {
		return nil
	}
	descendants := make([]*process.Process, 0, len(children))
	for _, child := range children {
		descendants = append(descendants, getAllDescendants(child)...)
		descendants = append(descendants, child)
	}
	return descendants
}

func terminateProcessTree(procs []*process.Process) {
	for _, proc := range procs {
		if err := proc.Terminate(); err != nil {
			log.Debug().Err(err).Int32("pid", proc.Pid).Msg("failed to terminate process")
		}
	}
}

func killProcessTree(procs []*process.Process) {
	for _, proc := range procs {
		if err := proc.Kill(); err != nil {
			log.Debug().Err(err).Int32("pid", proc.Pid).Msg("failed to kill process")
		}
	}
}
