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

// Package vfserr translates internal resolution and I/O faults into the
// errno the host OS would have returned, the way jacobsa/fuse aliases
// kernel errno values as package-level sentinels (see fuseutil.ENOSYS in
// the reference fuse package this module's FUSE-adjacent ancestry used).
// Every fault that crosses an engine operation boundary carries one of
// these Kinds; there is no retry and no silent swallow.
package vfserr

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Kind is the taxonomy of faults an engine operation can raise.
type Kind int

const (
	NotFound Kind = iota
	NotADir
	IsADir
	NotEmpty
	Exists
	PermissionDenied
	CrossDevice
	LinkLoop
	NameTooLong
	NoSpace
	BadDescriptor
	InvalidArgument
	IOError
)

// errno carries both the POSIX errno and the message prefix the real C
// library emits on Linux/macOS for that condition, so callers asserting on
// message substrings see the same text they would against a real OS.
type errno struct {
	errno  unix.Errno
	prefix string
}

var kindInfo = map[Kind]errno{
	NotFound:          {unix.ENOENT, "No such file or directory"},
	NotADir:           {unix.ENOTDIR, "Not a directory"},
	IsADir:            {unix.EISDIR, "Is a directory"},
	NotEmpty:          {unix.ENOTEMPTY, "Directory not empty"},
	Exists:            {unix.EEXIST, "File exists"},
	PermissionDenied:  {unix.EACCES, "Permission denied"},
	CrossDevice:       {unix.EXDEV, "Invalid cross-device link"},
	LinkLoop:          {unix.ELOOP, "Too many levels of symbolic links"},
	NameTooLong:       {unix.ENAMETOOLONG, "File name too long"},
	NoSpace:           {unix.ENOSPC, "No space left on device"},
	BadDescriptor:     {unix.EBADF, "Bad file descriptor"},
	InvalidArgument:   {unix.EINVAL, "Invalid argument"},
	IOError:           {unix.EIO, "Input/output error"},
}

// Error is the concrete error type returned by every engine operation that
// fails. It is never wrapped or swallowed internally; it is returned
// immediately to the caller.
type Error struct {
	Kind Kind
	Errno unix.Errno
	// Path is the path (or one of the paths, for two-path operations like
	// rename) the fault occurred on. May be empty for descriptor-only faults.
	Path string
	// Op names the operation that failed, e.g. "open", "rename".
	Op string
}

func (e *Error) Error() string {
	info := kindInfo[e.Kind]
	if e.Path == "" {
		return fmt.Sprintf("[Errno %d] %s", int(e.Errno), info.prefix)
	}
	return fmt.Sprintf("[Errno %d] %s: '%s'", int(e.Errno), info.prefix, e.Path)
}

// Is allows errors.Is(err, vfserr.New(kind, "", "")) to match purely on Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an *Error for the given kind, operation, and path.
func New(kind Kind, op, path string) *Error {
	info, ok := kindInfo[kind]
	if !ok {
		panic(fmt.Sprintf("vfserr: unknown kind %d", kind))
	}
	return &Error{Kind: kind, Errno: info.errno, Path: path, Op: op}
}

// WinError returns the Windows error code a profile configured for the
// Windows OS should surface for this kind: Windows profiles map the same
// kinds to WinError codes when the host expects them. Only the subset of
// codes relevant to the operations this engine implements is provided;
// unmapped kinds fall back to their POSIX errno, which is still useful to
// callers that only check message text.
func WinError(kind Kind) int {
	switch kind {
	case NotFound:
		return 2 // ERROR_FILE_NOT_FOUND
	case NotADir:
		return 267 // ERROR_DIRECTORY
	case IsADir:
		return 267 // ERROR_DIRECTORY (reused; Windows has no exact IsADir analogue)
	case NotEmpty:
		return 145 // ERROR_DIR_NOT_EMPTY
	case Exists:
		return 183 // ERROR_ALREADY_EXISTS
	case PermissionDenied:
		return 5 // ERROR_ACCESS_DENIED
	case CrossDevice:
		return 17 // ERROR_NOT_SAME_DEVICE
	case LinkLoop:
		return 1921 // ERROR_CANT_RESOLVE_FILENAME (closest analogue available)
	case NameTooLong:
		return 206 // ERROR_FILENAME_EXCED_RANGE
	case NoSpace:
		return 112 // ERROR_DISK_FULL
	case BadDescriptor:
		return 6 // ERROR_INVALID_HANDLE
	case InvalidArgument:
		return 87 // ERROR_INVALID_PARAMETER
	case IOError:
		return 1117 // ERROR_IO_DEVICE
	default:
		return int(kindInfo[kind].errno)
	}
}
