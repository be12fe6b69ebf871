package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/a2xxdis/insts"
)

var _ = Describe("Operands", func() {
	Describe("Source operand rendering", func() {
		It("should omit the channel suffix for swizzle zero", func() {
			src := insts.SrcOperand{Reg: 1}
			Expect(src.String()).To(Equal("R1"))
		})

		// swiz=0x22: chan[0]=(0x22+0)%4=z, chan[1]=(0x08+1)%4=y,
		// chan[2]=(0x02+2)%4=x, chan[3]=(0x00+3)%4=w
		It("should rotate a nonzero swizzle into channel names", func() {
			src := insts.SrcOperand{Reg: 2, Swizzle: 0x22}
			Expect(src.String()).To(Equal("R2.zyxw"))
		})

		// swiz=0x6c encodes .xxxx (each group selects x for its channel)
		It("should render a broadcast swizzle as four identical channels", func() {
			src := insts.SrcOperand{Reg: 0, Swizzle: 0x6c}
			Expect(src.String()).To(Equal("R0.xxxx"))
		})

		It("should always produce exactly four channel characters", func() {
			for swiz := 1; swiz <= 0xff; swiz++ {
				src := insts.SrcOperand{Reg: 3, Swizzle: uint8(swiz)}
				s := src.String()
				Expect(s).To(HaveLen(len("R3.") + 4))
				for _, c := range s[len("R3."):] {
					Expect(string(c)).To(BeElementOf("x", "y", "z", "w"))
				}
			}
		})

		It("should use the constant class letter for constant operands", func() {
			src := insts.SrcOperand{Reg: 7, Const: true}
			Expect(src.String()).To(Equal("C7"))
		})

		It("should prefix negated operands with a minus only", func() {
			src := insts.SrcOperand{Reg: 2, Negate: true, Swizzle: 0x22}
			Expect(src.String()).To(Equal("-R2.zyxw"))
		})
	})

	Describe("Destination operand rendering", func() {
		It("should omit the channel suffix for a full write mask", func() {
			dst := insts.DstOperand{Reg: 5, Mask: 0xf}
			Expect(dst.String()).To(Equal("R5"))
		})

		It("should blank unwritten channels", func() {
			dst := insts.DstOperand{Reg: 1, Mask: 0x7}
			Expect(dst.String()).To(Equal("R1.xyz_"))
		})

		It("should keep written channels in place", func() {
			dst := insts.DstOperand{Reg: 0, Mask: 0xa}
			Expect(dst.String()).To(Equal("R0._y_w"))
		})

		It("should render a single-channel mask", func() {
			dst := insts.DstOperand{Reg: 30, Mask: 0x1}
			Expect(dst.String()).To(Equal("R30.x___"))
		})
	})
})

var _ = Describe("Operations", func() {
	It("should map the known opcode values", func() {
		Expect(insts.OpFromCode(0)).To(Equal(insts.OpADDv))
		Expect(insts.OpFromCode(1)).To(Equal(insts.OpMULv))
		Expect(insts.OpFromCode(2)).To(Equal(insts.OpMAXv))
		Expect(insts.OpFromCode(11)).To(Equal(insts.OpMULADDv))
		Expect(insts.OpFromCode(15)).To(Equal(insts.OpDOT4v))
		Expect(insts.OpFromCode(16)).To(Equal(insts.OpDOT3v))
	})

	It("should map every other code to OpUnknown", func() {
		known := map[uint32]bool{0: true, 1: true, 2: true, 11: true, 15: true, 16: true}
		for code := uint32(0); code < 32; code++ {
			if known[code] {
				continue
			}
			Expect(insts.OpFromCode(code)).To(Equal(insts.OpUnknown))
		}
	})

	It("should render unknown opcodes numerically instead of failing", func() {
		alu := insts.ALUInstruction{Op: insts.OpUnknown, OpCode: 3}
		Expect(alu.Mnemonic()).To(Equal("OP(3)"))
	})

	It("should render known opcodes by mnemonic", func() {
		alu := insts.ALUInstruction{Op: insts.OpMULv, OpCode: 1}
		Expect(alu.Mnemonic()).To(Equal("MULv"))
	})
})

var _ = Describe("Fetch kinds", func() {
	It("should name the sample kind", func() {
		Expect(insts.FetchSample.String()).To(Equal("SAMPLE"))
	})

	It("should not conflate other kinds with SAMPLE", func() {
		Expect(insts.FetchKind(3).String()).To(Equal("FETCH(3)"))
	})
})

var _ = Describe("Unknown bits", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	It("should mask all identified ALU fields", func() {
		alu := decoder.DecodeALU(insts.Slot{0x140f0001, 0x00220000, 0xe0020100})
		Expect(alu.UnknownBits()).To(Equal(insts.Slot{0x14000000, 0x00000000, 0x20000000}))
	})

	It("should mask only word 0 fields of a fetch slot", func() {
		fetch := decoder.DecodeFetch(insts.Slot{0x10002021, 0x1ffff688, 0x00000002})
		Expect(fetch.UnknownBits()).To(Equal(insts.Slot{0x10000001, 0x1ffff688, 0x00000002}))
	})

	It("should mask the low 16 bits of a CF header word", func() {
		entry := decoder.DecodeCF(0, insts.Slot{0x00955002, 0x00001000, 0xc4000000})
		Expect(entry.UnknownBits()).To(Equal(insts.Slot{0x00950000, 0x00001000, 0xc4000000}))
	})
})
