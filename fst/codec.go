package fst

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	grammarfst "github.com/aurelab/grammarfst"
	"github.com/aurelab/grammarfst/errors"
)

// Binary format, little-endian throughout:
//
//	magic   [4]byte "GFST"
//	version uint32  (currently 1)
//	start   uint32
//	states  uint32
//	per state:
//	  final  uint32 (float32 bits)
//	  narcs  uint32
//	  per arc: ilabel, olabel, weight (float32 bits), nextstate  uint32 each

var codecMagic = [4]byte{'G', 'F', 'S', 'T'}

const codecVersion = 1

// maxStateCount guards against decoding absurd headers from corrupt files
// before allocating.
const maxStateCount = 1 << 28

// Write encodes a into the binary automaton format.
func Write(w io.Writer, a *Automaton) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(codecMagic[:]); err != nil {
		return errors.Load("write magic", err)
	}
	var scratch [16]byte
	putU32 := func(v uint32) error {
		binary.LittleEndian.PutUint32(scratch[:4], v)
		_, err := bw.Write(scratch[:4])
		return err
	}
	if err := putU32(codecVersion); err != nil {
		return errors.Load("write header", err)
	}
	if err := putU32(uint32(a.start)); err != nil {
		return errors.Load("write header", err)
	}
	if err := putU32(uint32(len(a.states))); err != nil {
		return errors.Load("write header", err)
	}
	for si := range a.states {
		st := &a.states[si]
		if err := putU32(math.Float32bits(float32(st.final))); err != nil {
			return errors.Load("write state", err)
		}
		if err := putU32(uint32(len(st.arcs))); err != nil {
			return errors.Load("write state", err)
		}
		for _, arc := range st.arcs {
			binary.LittleEndian.PutUint32(scratch[0:4], uint32(arc.ILabel))
			binary.LittleEndian.PutUint32(scratch[4:8], uint32(arc.OLabel))
			binary.LittleEndian.PutUint32(scratch[8:12], math.Float32bits(float32(arc.Weight)))
			binary.LittleEndian.PutUint32(scratch[12:16], uint32(arc.NextState))
			if _, err := bw.Write(scratch[:16]); err != nil {
				return errors.Load("write arc", err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Load("flush", err)
	}
	return nil
}

// Read decodes an automaton from the binary format, validating the header
// and every state reference before returning.
func Read(r io.Reader) (*Automaton, error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, errors.Load("read magic", err)
	}
	if magic != codecMagic {
		return nil, errors.Load("bad magic, not a compiled automaton", nil)
	}

	var scratch [16]byte
	readU32 := func() (uint32, error) {
		if _, err := io.ReadFull(br, scratch[:4]); err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint32(scratch[:4]), nil
	}

	version, err := readU32()
	if err != nil {
		return nil, errors.Load("read version", err)
	}
	if version != codecVersion {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
			Detail("unsupported format version %d", version).Build()
	}
	start, err := readU32()
	if err != nil {
		return nil, errors.Load("read start state", err)
	}
	numStates, err := readU32()
	if err != nil {
		return nil, errors.Load("read state count", err)
	}
	if numStates == 0 || numStates > maxStateCount {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
			Detail("state count %d out of range", numStates).Build()
	}
	if start >= numStates {
		return nil, errors.New(errors.PhaseLoad, errors.KindOutOfRange).
			State(start).Detail("start state beyond %d states", numStates).Build()
	}

	states := make([]state, numStates)
	for si := uint32(0); si < numStates; si++ {
		finalBits, err := readU32()
		if err != nil {
			return nil, errors.Load("read final cost", err)
		}
		numArcs, err := readU32()
		if err != nil {
			return nil, errors.Load("read arc count", err)
		}
		states[si].final = grammarfst.Weight(math.Float32frombits(finalBits))
		if numArcs == 0 {
			continue
		}
		if numArcs > maxStateCount {
			return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
				State(si).Detail("arc count %d out of range", numArcs).Build()
		}
		arcs := make([]grammarfst.Arc, numArcs)
		for ai := uint32(0); ai < numArcs; ai++ {
			if _, err := io.ReadFull(br, scratch[:16]); err != nil {
				return nil, errors.Load("read arc", err)
			}
			next := binary.LittleEndian.Uint32(scratch[12:16])
			if next >= numStates {
				return nil, errors.New(errors.PhaseLoad, errors.KindOutOfRange).
					State(si).Detail("arc targets state %d of %d", next, numStates).Build()
			}
			arcs[ai] = grammarfst.Arc{
				ILabel:    grammarfst.Label(binary.LittleEndian.Uint32(scratch[0:4])),
				OLabel:    grammarfst.Label(binary.LittleEndian.Uint32(scratch[4:8])),
				Weight:    grammarfst.Weight(math.Float32frombits(binary.LittleEndian.Uint32(scratch[8:12]))),
				NextState: grammarfst.StateID(next),
			}
		}
		states[si].arcs = arcs
	}

	return &Automaton{states: states, start: grammarfst.StateID(start)}, nil
}

// WriteFile writes a to path in the binary automaton format.
func WriteFile(path string, a *Automaton) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Load("create file", err)
	}
	if err := Write(f, a); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile loads an automaton from path.
func ReadFile(path string) (*Automaton, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Load("open file", err)
	}
	defer f.Close()
	return Read(f)
}
