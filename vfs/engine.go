// Copyright 2026 The vfsemu Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package vfs implements the emulator's engine: the component that ties
// the path engine, inode store, mount table, permission model, and
// handle table together behind the operation surface a test exercises
// (open, stat, mkdir, rename, and the rest).
//
// LOCK ORDERING. Engine.mu guards the engine-wide fields below (cwd,
// identity, paused) plus any multi-inode operation that must appear
// atomic (rename, link). Individual inodes carry their own mutex for
// single-inode field access. Code holding both always acquires Engine.mu
// first, then an inode's lock.
package vfs

import (
	"math/rand"
	"time"

	"github.com/fakefsgo/vfsemu/clock"
	"github.com/fakefsgo/vfsemu/engineconfig"
	"github.com/fakefsgo/vfsemu/handle"
	"github.com/fakefsgo/vfsemu/inode"
	"github.com/fakefsgo/vfsemu/mount"
	"github.com/fakefsgo/vfsemu/pathutil"
	"github.com/fakefsgo/vfsemu/perms"
	"github.com/fakefsgo/vfsemu/realimport"
	"github.com/fakefsgo/vfsemu/vfserr"
	"github.com/jacobsa/syncutil"
)

// DefaultTotalBytes is the root mount's byte budget absent an explicit
// set_disk_usage call, matching a generously sized tmpfs.
const DefaultTotalBytes = 1 << 40

// Engine is one emulated filesystem instance. Every exported operation on
// it is safe to call from multiple goroutines.
type Engine struct {
	mu syncutil.InvariantMutex

	profile  pathutil.Profile
	cfg      engineconfig.Config
	clock    clock.Clock
	identity perms.Identity
	umask    perms.Mode
	cwd      string
	paused   bool
	rng      *rand.Rand

	mounts     *mount.Table
	inodes     *inode.Store
	handles    *handle.Table
	reader     realimport.Reader
	sinkDevice *inode.Inode
}

// New constructs a fresh engine from opts (decoded via engineconfig),
// with a single root directory mount and the process's real uid/gid as
// its default identity.
func New(opts map[string]any) (*Engine, error) {
	cfg, err := engineconfig.Decode(opts)
	if err != nil {
		return nil, err
	}

	profile, err := cfg.Profile(pathutil.Linux)
	if err != nil {
		return nil, err
	}

	id, err := perms.New()
	if err != nil {
		return nil, err
	}
	id.AllowRootOverride = cfg.AllowRootUser
	if cfg.UID != nil {
		id.Uid = *cfg.UID
	}
	if cfg.GID != nil {
		id.Gid = *cfg.GID
	}

	e := &Engine{
		profile:  profile,
		cfg:      cfg,
		clock:    clock.RealClock{},
		identity: id,
		umask:    perms.Mode(cfg.Umask),
		cwd:      string(profile.Separator),
		rng:      rand.New(rand.NewSource(1)),
		inodes:   inode.NewStore(),
		handles:  handle.NewTable(),
		reader:   realimport.OSReader{},
	}

	e.mu = syncutil.NewInvariantMutex(e.checkInvariants)
	e.initRoot()
	return e, nil
}

// checkInvariants verifies engine-wide fields the InvariantMutex checks
// around every Lock/Unlock.
func (e *Engine) checkInvariants() {
	if e.cwd == "" {
		panic("engine: cwd must never be empty")
	}
}

func (e *Engine) initRoot() {
	now := e.clock.Now()
	rootID := e.inodes.Allocate()
	root := inode.NewDirectory(rootID, 0o755, e.identity.Uid, e.identity.Gid, now)
	e.inodes.Put(root)
	e.mounts = mount.NewTable(e.profile, rootID, DefaultTotalBytes)
	e.mounts.SetNextInodeForDrive(e.inodes.Allocate)
	root.DeviceID = e.mounts.All()[0].DeviceID

	// sinkDevice backs every Windows reserved device name (CON, NUL, ...)
	// so the resolver can hand one back without the directory tree ever
	// having a real entry for it, per the path engine's treatment of those
	// names as always-valid.
	sinkID := e.inodes.Allocate()
	sink := inode.NewDevice(sinkID, 1, 3, e.identity.Uid, e.identity.Gid, now)
	e.inodes.Put(sink)
	e.sinkDevice = sink
}

// SetClock installs a deterministic clock (e.g. clock.SimulatedClock) in
// place of the wall-clock default, used by tests that assert on exact
// mtimes.
func (e *Engine) SetClock(c clock.Clock) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock = c
}

// SetIdentity overrides the effective uid/gid/groups the engine checks
// permissions against.
func (e *Engine) SetIdentity(id perms.Identity) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.identity = id
}

// SetReader overrides the host filesystem reader used by the
// AddReal* family of operations, letting tests substitute a fake without
// touching the real disk.
func (e *Engine) SetReader(r realimport.Reader) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reader = r
}

// SetUmask overrides the umask newly created inodes are masked with.
func (e *Engine) SetUmask(m perms.Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.umask = m
}

// Cwd returns the engine's current working directory.
func (e *Engine) Cwd() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cwd
}

// Profile returns the active OS profile (separators, case sensitivity).
func (e *Engine) Profile() pathutil.Profile {
	return e.profile
}

// Chdir changes the engine's working directory after confirming path
// resolves to a directory.
func (e *Engine) Chdir(path string) error {
	if err := e.checkPaused("chdir", path); err != nil {
		return err
	}
	in, abs, err := e.resolvePath(path, true)
	if err != nil {
		return err
	}
	in.Lock()
	kind := in.Kind
	in.Unlock()
	if kind != inode.Directory {
		return vfserr.New(vfserr.NotADir, "chdir", abs)
	}

	e.mu.Lock()
	e.cwd = abs
	e.mu.Unlock()
	return nil
}

// absPath resolves path against the engine's cwd if it is relative.
func (e *Engine) absPath(path string) string {
	if pathutil.IsAbs(e.profile, path) {
		return path
	}
	e.mu.Lock()
	cwd := e.cwd
	e.mu.Unlock()
	return pathutil.Join(e.profile, cwd, path)
}

// shuffle applies the engine's deterministic PRNG (reseeded on Reset) to
// a Fisher-Yates permutation, backing shuffle_listdir_results.
func (e *Engine) shuffle(n int, swap func(i, j int)) {
	e.mu.Lock()
	r := e.rng
	e.mu.Unlock()
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		swap(i, j)
	}
}

// Reset clears all inodes, handles, and mounts back to a single empty
// root, reseeds the PRNG, and restores defaults.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.handles.CloseAll()
	e.inodes = inode.NewStore()
	e.cwd = string(e.profile.Separator)
	e.rng = rand.New(rand.NewSource(1))
	e.paused = false
	e.mu.Unlock()

	e.initRoot()
}

// now is a small helper used throughout the operation surface.
func (e *Engine) now() time.Time {
	e.mu.Lock()
	c := e.clock
	e.mu.Unlock()
	return c.Now()
}
