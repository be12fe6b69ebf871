// Package insts provides Adreno A2xx shader instruction definitions and
// decoding.
//
// A2xx shader microcode is a sequence of 32-bit words grouped into slots
// of three words each. A slot holds either a control-flow (CF) entry,
// found in the header region at the start of the buffer, or an ALU/FETCH
// instruction. The encoding is only partially understood; unrecognized
// opcodes and unclaimed bits decode to explicit "unknown" values rather
// than errors, so that every captured shader produces output.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	alu := decoder.DecodeALU(insts.Slot{0x140f0000, 0x00008800, 0xe1000100})
//	fmt.Printf("%s %s = %s, %s\n", alu.Mnemonic(), alu.Dst, alu.Src1, alu.Src2)
package insts

import (
	"fmt"
	"strings"
)

// SlotWords is the number of 32-bit words per slot.
const SlotWords = 3

// Slot is the atomic decode unit: three consecutive 32-bit words.
// Both CF entries and instructions occupy exactly one slot.
type Slot [SlotWords]uint32

// RegMask limits register numbers to 5 bits. The actual size of the
// register file is unconfirmed.
const RegMask = 0x1f

// Op represents a known ALU vector operation.
type Op uint8

// ALU vector operations. The numeric opcode values they correspond to
// are held in opCodes; codes outside that table decode as OpUnknown.
const (
	OpUnknown Op = iota
	OpADDv
	OpMULv
	OpMAXv
	OpMULADDv
	OpDOT4v
	OpDOT3v
)

// opCodes maps the 5-bit vector opcode field to known operations.
// The table is sparse: only a handful of codes have been identified.
var opCodes = map[uint32]Op{
	0:  OpADDv,
	1:  OpMULv,
	2:  OpMAXv,
	11: OpMULADDv,
	15: OpDOT4v,
	16: OpDOT3v,
}

var opNames = map[Op]string{
	OpADDv:    "ADDv",
	OpMULv:    "MULv",
	OpMAXv:    "MAXv",
	OpMULADDv: "MULADDv",
	OpDOT4v:   "DOT4v",
	OpDOT3v:   "DOT3v",
}

// OpFromCode maps a 5-bit ALU opcode field to an Op. Codes outside the
// known table map to OpUnknown.
func OpFromCode(code uint32) Op {
	return opCodes[code]
}

// String returns the mnemonic for a known operation, or "unknown".
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// chanNames are the channel names indexed by channel number.
var chanNames = [4]byte{'x', 'y', 'z', 'w'}

// SrcOperand is a source register reference of an ALU instruction.
type SrcOperand struct {
	Reg     uint8 // register number, masked to RegMask
	Const   bool  // constant register file (C) rather than GPR (R)
	Swizzle uint8 // 2 bits per destination channel; 0 means identity
	Negate  bool
}

// String renders the operand: an optional negate prefix, the register
// class letter and number, and for a nonzero swizzle a '.' followed by
// one channel name per destination channel.
//
// The channel name for destination channel i is chanNames[(s+i)%4],
// where s is the swizzle shifted right by 2i bits. The per-channel
// bit-to-name mapping therefore differs across channels:
//
//	chan[0]: 00-x 01-y 10-z 11-w
//	chan[1]: 11-x 00-y 01-z 10-w
//	chan[2]: 10-x 11-y 00-z 01-w
//	chan[3]: 01-x 10-y 11-z 00-w
//
// Note: .x is the same as .xxxx, .y the same as .yyyy, etc. Some other
// bit(s) presumably control whether the operand is vector or scalar.
func (s SrcOperand) String() string {
	var b strings.Builder
	if s.Negate {
		b.WriteByte('-')
	}
	if s.Const {
		b.WriteByte('C')
	} else {
		b.WriteByte('R')
	}
	fmt.Fprintf(&b, "%d", s.Reg)
	if s.Swizzle != 0 {
		b.WriteByte('.')
		swiz := s.Swizzle
		for i := 0; i < 4; i++ {
			b.WriteByte(chanNames[(int(swiz)+i)&0x3])
			swiz >>= 2
		}
	}
	return b.String()
}

// DstOperand is the destination register reference of an ALU
// instruction.
type DstOperand struct {
	Reg  uint8 // register number, masked to RegMask
	Mask uint8 // one bit per channel x/y/z/w, 1 = written
}

// String renders the destination: R<num>, and unless all four channels
// are written, a '.' followed by the channel name where the mask bit is
// set and '_' where it is clear.
func (d DstOperand) String() string {
	if d.Mask == 0xf {
		return fmt.Sprintf("R%d", d.Reg)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "R%d.", d.Reg)
	mask := d.Mask
	for i := 0; i < 4; i++ {
		if mask&0x1 != 0 {
			b.WriteByte(chanNames[i])
		} else {
			b.WriteByte('_')
		}
		mask >>= 1
	}
	return b.String()
}

// ALUInstruction represents a decoded vector ALU slot.
type ALUInstruction struct {
	Op     Op     // known operation, or OpUnknown
	OpCode uint32 // raw 5-bit opcode field
	Dst    DstOperand
	Src1   SrcOperand
	Src2   SrcOperand
	Words  Slot // the raw slot
}

// Mnemonic returns the operation name, or OP(<code>) when the opcode is
// outside the known table.
func (a *ALUInstruction) Mnemonic() string {
	if a.Op == OpUnknown {
		return fmt.Sprintf("OP(%d)", a.OpCode)
	}
	return a.Op.String()
}

// aluKnownMasks are the bits of an ALU slot claimed by identified
// fields. The complement is echoed in unknown-bits mode to aid
// discovery of undocumented fields.
var aluKnownMasks = Slot{
	RegMask | 0xf<<16,
	0xff<<16 | 0xff<<8 | 0x04000000 | 0x02000000,
	RegMask<<16 | RegMask<<8 | 0x80000000 | 0x40000000 | 0x1f<<24,
}

// UnknownBits returns the slot with all identified bits masked off.
func (a *ALUInstruction) UnknownBits() Slot {
	return Slot{
		a.Words[0] &^ aluKnownMasks[0],
		a.Words[1] &^ aluKnownMasks[1],
		a.Words[2] &^ aluKnownMasks[2],
	}
}

// FetchKind identifies a kind of fetch instruction. Only texture
// sampling has been identified so far; future kinds must not be
// conflated with it.
type FetchKind uint8

// Fetch kinds.
const (
	FetchSample FetchKind = iota
)

// String returns the fetch kind name.
func (k FetchKind) String() string {
	if k == FetchSample {
		return "SAMPLE"
	}
	return fmt.Sprintf("FETCH(%d)", uint8(k))
}

// FetchInstruction represents a decoded texture/memory fetch slot.
// Write mask and swizzle fields, if any, have not been identified.
type FetchInstruction struct {
	Kind     FetchKind
	Dst      uint8 // destination register
	Src      uint8 // source (coordinate) register
	ConstIdx uint8 // constant/sampler index
	Words    Slot
}

// fetchKnownMasks are the bits of a fetch slot claimed by identified
// fields. Words 1 and 2 are entirely unidentified.
var fetchKnownMasks = Slot{
	RegMask<<5 | RegMask<<12 | 0xf<<20,
	0x00000000,
	0x00000000,
}

// UnknownBits returns the slot with all identified bits masked off.
func (f *FetchInstruction) UnknownBits() Slot {
	return Slot{
		f.Words[0] &^ fetchKnownMasks[0],
		f.Words[1] &^ fetchKnownMasks[1],
		f.Words[2] &^ fetchKnownMasks[2],
	}
}

// CFEntry represents a control-flow entry: a header-region slot that
// declares a contiguous range of instruction slots.
type CFEntry struct {
	Index    int    // position in the header region
	Addr     uint32 // starting slot offset of the declared range
	Count    uint32 // number of slots in the range
	Implicit bool   // synthesized from an all-zero header word
	Words    Slot
}

// cfKnownMasks are the bits of a CF slot claimed by identified fields
// (addr and count in the low 16 bits of word 0).
var cfKnownMasks = Slot{
	0x0000ffff,
	0x00000000,
	0x00000000,
}

// UnknownBits returns the slot with all identified bits masked off.
func (e *CFEntry) UnknownBits() Slot {
	return Slot{
		e.Words[0] &^ cfKnownMasks[0],
		e.Words[1] &^ cfKnownMasks[1],
		e.Words[2] &^ cfKnownMasks[2],
	}
}
