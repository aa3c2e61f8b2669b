package types

import (
	"errors"
	"fmt"
	"os"
)

// ErrStateTruncated is returned by State.Err when a read ran past the
// end of the raw state data.
var ErrStateTruncated = errors.New("state: unexpected end of state data")

// stateMagic prefixes every serialised state so that arbitrary files
// are rejected before any component tries to load from them.
var stateMagic = [4]byte{'G', 'B', 'P', 'U'}

// State represents the video subsystem state. This is used to
// save and load snapshots between runs.
type State struct {
	raw          []byte // raw state data (for serialization)
	readPosition int    // current read position

	err error // first error encountered whilst reading
}

// Stater is an interface that allows an object to be saved
// and loaded from a state.
type Stater interface {
	Load(*State) // Load the state of the object
	Save(*State) // Save the state of the object
}

// NewState creates a new state, with the header already written.
func NewState() *State {
	s := &State{raw: make([]byte, 0, 0x8000)}
	s.WriteData(stateMagic[:])
	return s
}

// StateFromBytes creates a new state from the given bytes, verifying
// the header. The returned state is positioned after the header.
func StateFromBytes(raw []byte) (*State, error) {
	if len(raw) < len(stateMagic) {
		return nil, ErrStateTruncated
	}
	if [4]byte(raw[:4]) != stateMagic {
		return nil, fmt.Errorf("state: invalid header %q", raw[:4])
	}

	return &State{raw: raw, readPosition: len(stateMagic)}, nil
}

// Err returns the first error encountered whilst reading, if any.
func (s *State) Err() error {
	return s.err
}

// need reports whether n more bytes can be read, recording
// ErrStateTruncated if not.
func (s *State) need(n int) bool {
	if s.err != nil {
		return false
	}
	if s.readPosition+n > len(s.raw) {
		s.err = ErrStateTruncated
		return false
	}
	return true
}

func (s *State) Write8(value uint8) {
	s.raw = append(s.raw, value)
}

func (s *State) Write16(value uint16) {
	s.raw = append(s.raw, byte(value), byte(value>>8))
}

func (s *State) Write32(value uint32) {
	s.raw = append(s.raw, byte(value), byte(value>>8), byte(value>>16), byte(value>>24))
}

func (s *State) WriteBool(value bool) {
	if value {
		s.raw = append(s.raw, 1)
	} else {
		s.raw = append(s.raw, 0)
	}
}

func (s *State) WriteData(data []byte) {
	s.raw = append(s.raw, data...)
}

func (s *State) Read8() uint8 {
	if !s.need(1) {
		return 0
	}
	value := s.raw[s.readPosition]
	s.readPosition++
	return value
}

func (s *State) Read16() uint16 {
	if !s.need(2) {
		return 0
	}
	value := uint16(s.raw[s.readPosition]) | uint16(s.raw[s.readPosition+1])<<8
	s.readPosition += 2
	return value
}

func (s *State) Read32() uint32 {
	if !s.need(4) {
		return 0
	}
	value := uint32(s.raw[s.readPosition]) | uint32(s.raw[s.readPosition+1])<<8 | uint32(s.raw[s.readPosition+2])<<16 | uint32(s.raw[s.readPosition+3])<<24
	s.readPosition += 4
	return value
}

func (s *State) ReadBool() bool {
	return s.Read8() != 0
}

func (s *State) ReadData(p []byte) {
	if !s.need(len(p)) {
		return
	}
	copy(p, s.raw[s.readPosition:])
	s.readPosition += len(p)
}

func (s *State) SaveToFile(filename string) error {
	return os.WriteFile(filename, s.raw, 0644)
}

func (s *State) Bytes() []byte {
	return s.raw
}
