package insts

// SlotKind classifies an instruction slot.
type SlotKind uint8

// Instruction slot kinds.
const (
	SlotALU SlotKind = iota
	SlotFetch
)

// String returns the slot kind name.
func (k SlotKind) String() string {
	if k == SlotALU {
		return "ALU"
	}
	return "FETCH"
}

// Decoder decodes A2xx shader microcode slots into instructions.
type Decoder struct{}

// NewDecoder creates a new A2xx slot decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Classify reports whether a slot holds an ALU or a FETCH instruction:
// ALU when any of the top 4 bits of the third word are set, FETCH
// otherwise. This rule is an empirical guess from captured shaders and
// is the least-trusted part of the decoder; it has not been confirmed
// against hardware documentation.
func (d *Decoder) Classify(slot Slot) SlotKind {
	if slot[2]&0xf0000000 != 0 {
		return SlotALU
	}
	return SlotFetch
}

// DecodeALU decodes a slot as a vector ALU instruction.
// Layout: dst reg w0[4:0], dst mask w0[19:16]; src1 swizzle w1[23:16],
// src2 swizzle w1[15:8], src1 negate w1[26], src2 negate w1[25];
// src1 reg w2[20:16], src2 reg w2[12:8], src1/src2 constant-class
// w2[31]/w2[30] (clear = constant), opcode w2[28:24].
func (d *Decoder) DecodeALU(slot Slot) *ALUInstruction {
	code := (slot[2] >> 24) & 0x1f

	return &ALUInstruction{
		Op:     OpFromCode(code),
		OpCode: code,
		Dst: DstOperand{
			Reg:  uint8(slot[0] & RegMask),
			Mask: uint8((slot[0] >> 16) & 0xf),
		},
		Src1: SrcOperand{
			Reg:     uint8((slot[2] >> 16) & RegMask),
			Const:   slot[2]&0x80000000 == 0,
			Swizzle: uint8((slot[1] >> 16) & 0xff),
			Negate:  slot[1]&0x04000000 != 0,
		},
		Src2: SrcOperand{
			Reg:     uint8((slot[2] >> 8) & RegMask),
			Const:   slot[2]&0x40000000 == 0,
			Swizzle: uint8((slot[1] >> 8) & 0xff),
			Negate:  slot[1]&0x02000000 != 0,
		},
		Words: slot,
	}
}

// DecodeFetch decodes a slot as a fetch instruction.
// Layout: dst reg w0[16:12], src (coordinate) reg w0[9:5],
// constant/sampler index w0[23:20]. Other fetch kinds, if they exist,
// have not been identified.
func (d *Decoder) DecodeFetch(slot Slot) *FetchInstruction {
	return &FetchInstruction{
		Kind:     FetchSample,
		Dst:      uint8((slot[0] >> 12) & RegMask),
		Src:      uint8((slot[0] >> 5) & RegMask),
		ConstIdx: uint8((slot[0] >> 20) & 0xf),
		Words:    slot,
	}
}

// DecodeCF decodes a header-region slot as a control-flow entry.
// Layout: addr w0[11:0], count w0[15:12]. Zero-header sentinels are the
// walker's concern; this extraction is unconditional.
func (d *Decoder) DecodeCF(index int, slot Slot) *CFEntry {
	return &CFEntry{
		Index: index,
		Addr:  slot[0] & 0xfff,
		Count: (slot[0] >> 12) & 0xf,
		Words: slot,
	}
}
