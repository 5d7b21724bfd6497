package module

import (
	"encoding/binary"
	"fmt"
	"os"
)

const (
	rmdMagic = "GRM1"

	// Per-section sanity limits. Real rooms stay far below these; a count
	// beyond them means a corrupt or mis-decoded file.
	maxCuts      = 256
	maxSets      = 64
	maxTriggers  = 512
	maxFunctions = 1024
	maxCalls     = 4096
	maxArgs      = 32
)

// Parse reads a room database entry (.RMD) and returns the decoded room.
func Parse(path string) (*Room, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("module: read %s: %w", path, err)
	}

	if len(raw) < 24 || string(raw[:4]) != rmdMagic {
		return nil, fmt.Errorf("module: invalid header in %s", path)
	}

	r := &reader{data: raw, off: 4}
	room, err := r.parse()
	if err != nil {
		return nil, fmt.Errorf("module: %s: %w", path, err)
	}
	return room, nil
}

// reader is a bounds-checked cursor. A read past the end sets truncated
// and yields zeros, so parse can fail once at the end instead of checking
// every field.
type reader struct {
	data      []byte
	off       int
	truncated bool
}

func (r *reader) readStr(n int) string {
	if r.off+n > len(r.data) {
		r.off = len(r.data)
		r.truncated = true
		return ""
	}
	s := r.data[r.off : r.off+n]
	r.off += n
	for i, b := range s {
		if b == 0 {
			return string(s[:i])
		}
	}
	return string(s)
}

func (r *reader) readByte() byte {
	if r.off >= len(r.data) {
		r.truncated = true
		return 0
	}
	b := r.data[r.off]
	r.off++
	return b
}

func (r *reader) readI16() int {
	return int(int16(r.readU16()))
}

func (r *reader) readU16() uint16 {
	if r.off+2 > len(r.data) {
		r.off = len(r.data)
		r.truncated = true
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *reader) readU32() uint32 {
	if r.off+4 > len(r.data) {
		r.off = len(r.data)
		r.truncated = true
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *reader) readI32() int32 {
	return int32(r.readU32())
}

func (r *reader) parse() (*Room, error) {
	room := &Room{Name: r.readStr(8)}

	cutCount := int(r.readU16())
	entranceSetCount := int(r.readU16())
	bgSetCount := int(r.readU16())
	triggerCount := int(r.readU16())
	functionCount := int(r.readU16())
	_ = r.readU16() // padding

	if cutCount > maxCuts || entranceSetCount > maxSets || bgSetCount > maxSets ||
		triggerCount > maxTriggers || functionCount > maxFunctions {
		return nil, fmt.Errorf("implausible section counts (%d/%d/%d/%d/%d)",
			cutCount, entranceSetCount, bgSetCount, triggerCount, functionCount)
	}

	room.Layout.Cuts = make([]Cut, cutCount)
	for i := range room.Layout.Cuts {
		room.Layout.Cuts[i] = Cut{
			Index: r.readI16(),
			X1:    r.readI16(), Z1: r.readI16(),
			X2: r.readI16(), Z2: r.readI16(),
			X3: r.readI16(), Z3: r.readI16(),
			X4: r.readI16(), Z4: r.readI16(),
		}
	}

	room.Entrances = make([]EntranceSet, entranceSetCount)
	for i := range room.Entrances {
		n := int(r.readU16())
		if n > maxTriggers {
			return nil, fmt.Errorf("implausible entrance count %d in set %d", n, i)
		}
		set := EntranceSet{Entrances: make([]Entrance, n)}
		for j := range set.Entrances {
			set.Entrances[j] = Entrance{
				RoomIndex: r.readI16(),
				X:         r.readI16(),
				Y:         r.readI16(),
				Z:         r.readI16(),
				Facing:    r.readI16(),
			}
		}
		room.Entrances[i] = set
	}

	room.Backgrounds = make([]BackgroundSet, bgSetCount)
	for i := range room.Backgrounds {
		n := int(r.readU16())
		if n > maxCuts {
			return nil, fmt.Errorf("implausible background count %d in set %d", n, i)
		}
		set := BackgroundSet{Backgrounds: make([]Background, n)}
		for j := range set.Backgrounds {
			set.Backgrounds[j] = Background{Index: int(r.readU16())}
			_ = r.readU16() // reserved
		}
		room.Backgrounds[i] = set
	}

	room.Triggers = make([]Trigger, triggerCount)
	for i := range room.Triggers {
		room.Triggers[i] = Trigger{
			Enabled:  r.readU16() != 0,
			Kind:     int(r.readU16()),
			Callback: r.readU32(),
		}
	}

	room.Functions = make(map[uint32]*Function, functionCount)
	for i := 0; i < functionCount; i++ {
		fn := &Function{Address: r.readU32()}
		callCount := int(r.readU16())
		if callCount > maxCalls {
			return nil, fmt.Errorf("implausible call count %d in function %08X", callCount, fn.Address)
		}
		fn.Calls = make([]Call, callCount)
		for j := range fn.Calls {
			name := r.readStr(16)
			argc := int(r.readByte())
			_ = r.readByte() // padding
			if argc > maxArgs {
				return nil, fmt.Errorf("implausible arg count %d in function %08X", argc, fn.Address)
			}
			args := make([]int32, argc)
			for k := range args {
				args[k] = r.readI32()
			}
			fn.Calls[j] = Call{Name: name, Args: args}
		}
		room.Functions[fn.Address] = fn
	}

	if r.truncated {
		return nil, fmt.Errorf("truncated file")
	}
	return room, nil
}
