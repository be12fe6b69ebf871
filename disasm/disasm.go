// Package disasm walks Adreno A2xx shader microcode buffers and prints
// a readable listing.
//
// A buffer starts with a header region of control-flow (CF) entries,
// each declaring an offset and count of instruction slots that follow.
// The walker decodes entries in order, resynchronizes when an entry's
// declared start disagrees with what has actually been consumed, and
// drains any undeclared trailing slots. Anomalies never abort the
// decode: they show up as inline '?' markers in the listing and as
// structured warnings in the returned Report.
package disasm

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sarchlab/a2xxdis/insts"
)

// Precondition violations. The decoder itself never fails once these
// hold.
var (
	// ErrEmptyBuffer is returned for a zero-length word buffer.
	ErrEmptyBuffer = errors.New("empty word buffer")
	// ErrUnalignedBuffer is returned when the buffer length is not a
	// multiple of the slot size.
	ErrUnalignedBuffer = errors.New("buffer length is not a multiple of the slot size")
)

// WarningKind classifies a decode anomaly.
type WarningKind uint8

// Decode anomalies.
const (
	// WarnDesync marks a slot decoded by the resync guard because the
	// declared CF ranges did not cover it.
	WarnDesync WarningKind = iota
	// WarnImplicitEntry marks a CF entry synthesized from an all-zero
	// header word.
	WarnImplicitEntry
	// WarnUnknownOp marks an ALU opcode outside the known table.
	WarnUnknownOp
	// WarnOverrun marks a CF entry whose declared start lies behind
	// the cursor; the guard never rewinds. Slot is the entry's
	// header slot and Addr its declared start.
	WarnOverrun
	// WarnTruncated marks a declared range that runs past the end of
	// the buffer.
	WarnTruncated
)

// Warning records one decode anomaly.
type Warning struct {
	Kind WarningKind
	Slot int    // slot index the anomaly was observed at
	Addr uint32 // declared start of a backwards CF entry, for WarnOverrun
	Code uint32 // raw opcode field, for WarnUnknownOp
}

// Decoded records one decoded instruction slot.
type Decoded struct {
	Slot      int // slot index in the buffer
	Kind      insts.SlotKind
	ALU       *insts.ALUInstruction   // set when Kind is SlotALU
	Fetch     *insts.FetchInstruction // set when Kind is SlotFetch
	Recovered bool                    // decoded by the resync guard
}

// Report is the structured result of one decode pass.
//
// For a buffer whose CF entries tile it, len(Entries) plus
// len(Instructions) equals Slots: every slot is consumed exactly once.
type Report struct {
	Slots        int // total slots in the buffer
	Entries      []*insts.CFEntry
	Instructions []Decoded
	Desyncs      int // number of '?' markers emitted
	Warnings     []Warning
}

func (r *Report) warn(w Warning) {
	r.Warnings = append(r.Warnings, w)
}

// Disassembler decodes word buffers and writes the listing to its
// writer. All decode state is local to one Disassemble call, so
// distinct disassemblers may run concurrently; sharing one across
// goroutines interleaves its output.
type Disassembler struct {
	w   io.Writer
	cfg Config
	dec *insts.Decoder
}

// Option configures a Disassembler.
type Option func(*Disassembler)

// WithWriter directs the listing to w instead of standard output.
func WithWriter(w io.Writer) Option {
	return func(d *Disassembler) {
		d.w = w
	}
}

// WithConfig applies an output configuration.
func WithConfig(cfg *Config) Option {
	return func(d *Disassembler) {
		d.cfg = *cfg
	}
}

// WithRawWords toggles echoing the raw words of every slot.
func WithRawWords(on bool) Option {
	return func(d *Disassembler) {
		d.cfg.ShowRawWords = on
	}
}

// WithUnknownBits toggles echoing each word with identified bits
// masked off.
func WithUnknownBits(on bool) Option {
	return func(d *Disassembler) {
		d.cfg.ShowUnknownBits = on
	}
}

// New creates a Disassembler writing to standard output with both
// diagnostic echoes disabled, then applies the given options.
func New(opts ...Option) *Disassembler {
	d := &Disassembler{
		w:   os.Stdout,
		cfg: *DefaultConfig(),
		dec: insts.NewDecoder(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Disassemble decodes a buffer of 32-bit words and writes the listing.
// level is a cosmetic indentation depth. The buffer must be non-empty
// and a whole number of slots; beyond that the decode always succeeds
// and the Report describes what was found.
func (d *Disassembler) Disassemble(words []uint32, level int) (*Report, error) {
	if len(words) == 0 {
		return nil, ErrEmptyBuffer
	}
	if len(words)%insts.SlotWords != 0 {
		return nil, fmt.Errorf("%w: %d words", ErrUnalignedBuffer, len(words))
	}

	totalSlots := len(words) / insts.SlotWords
	rep := &Report{Slots: totalSlots}

	firstOff := int(words[0] & 0xfff)
	cursor := firstOff * insts.SlotWords

	// An all-zero first word stands for a single implicit block
	// covering everything after slot 0. The body slots are then
	// consumed by the trailing drain below.
	if words[0] == 0 {
		cursor = insts.SlotWords
		entry := &insts.CFEntry{
			Index:    0,
			Addr:     1,
			Count:    uint32(totalSlots - 1),
			Implicit: true,
			Words:    slotAt(words, 0),
		}
		d.printCF(entry, level)
		rep.Entries = append(rep.Entries, entry)
	}

	for i := 0; i < firstOff; i++ {
		if (i+1)*insts.SlotWords > len(words) {
			rep.warn(Warning{Kind: WarnTruncated, Slot: i})
			break
		}
		slot := slotAt(words, i)
		entry := d.dec.DecodeCF(i, slot)

		// A header slot whose first word is zero continues the
		// implicit block to the end of the buffer; its trailing
		// words are not part of the sentinel. This recurs per entry
		// with a count computed from the cursor, unlike the
		// whole-buffer case above; whether the two represent the
		// same hardware condition is unconfirmed, so they stay
		// separate.
		if slot[0] == 0 {
			fmt.Fprint(d.w, "?")
			entry.Addr = uint32(cursor / insts.SlotWords)
			entry.Count = uint32(totalSlots) - entry.Addr
			entry.Implicit = true
			rep.warn(Warning{Kind: WarnImplicitEntry, Slot: i})
		}

		target := int(entry.Addr) * insts.SlotWords
		if target < cursor {
			rep.warn(Warning{Kind: WarnOverrun, Slot: i, Addr: entry.Addr})
		}
		cursor = d.resync(words, cursor, target, level, rep)

		d.printCF(entry, level)
		rep.Entries = append(rep.Entries, entry)

		for j := 0; j < int(entry.Count); j++ {
			if cursor+insts.SlotWords > len(words) {
				rep.warn(Warning{Kind: WarnTruncated, Slot: cursor / insts.SlotWords})
				break
			}
			d.decodeInst(words, cursor, level, false, rep)
			cursor += insts.SlotWords
		}
	}

	// Drain undeclared trailing slots. The cursor can sit past the
	// buffer end only when the header count itself pointed there.
	if cursor > len(words) {
		rep.warn(Warning{Kind: WarnOverrun, Slot: cursor / insts.SlotWords})
	}
	d.resync(words, cursor, len(words), level, rep)

	return rep, nil
}

// resync advances the cursor to target, decoding every skipped slot as
// a best-effort instruction with a '?' marker. It is forward-only: for
// a target behind the cursor it leaves the cursor where it is; callers
// record the overrun.
func (d *Disassembler) resync(words []uint32, cursor, target, level int, rep *Report) int {
	for cursor < target && cursor+insts.SlotWords <= len(words) {
		fmt.Fprint(d.w, "?")
		rep.warn(Warning{Kind: WarnDesync, Slot: cursor / insts.SlotWords})
		d.decodeInst(words, cursor, level, true, rep)
		cursor += insts.SlotWords
		rep.Desyncs++
	}
	return cursor
}

// decodeInst decodes and prints the instruction slot at word offset
// off, recording it in the report.
func (d *Disassembler) decodeInst(words []uint32, off, level int, recovered bool, rep *Report) {
	slot := slotAt(words, off/insts.SlotWords)

	fmt.Fprint(d.w, indent(level))
	if d.cfg.ShowRawWords {
		fmt.Fprintf(d.w, "%08x %08x %08x\t", slot[0], slot[1], slot[2])
	}

	dec := Decoded{
		Slot:      off / insts.SlotWords,
		Kind:      d.dec.Classify(slot),
		Recovered: recovered,
	}

	switch dec.Kind {
	case insts.SlotALU:
		alu := d.dec.DecodeALU(slot)
		if d.cfg.ShowUnknownBits {
			u := alu.UnknownBits()
			fmt.Fprintf(d.w, "%08x %08x %08x\t", u[0], u[1], u[2])
		}
		fmt.Fprintf(d.w, "\tALU:\t%s\t%s = %s, %s\n",
			alu.Mnemonic(), alu.Dst, alu.Src1, alu.Src2)
		if alu.Op == insts.OpUnknown {
			rep.warn(Warning{Kind: WarnUnknownOp, Slot: dec.Slot, Code: alu.OpCode})
		}
		dec.ALU = alu
	case insts.SlotFetch:
		fetch := d.dec.DecodeFetch(slot)
		if d.cfg.ShowUnknownBits {
			u := fetch.UnknownBits()
			fmt.Fprintf(d.w, "%08x %08x %08x\t", u[0], u[1], u[2])
		}
		fmt.Fprintf(d.w, "\tFETCH:\t%s\tR%d = R%d CONST(%d)\n",
			fetch.Kind, fetch.Dst, fetch.Src, fetch.ConstIdx)
		dec.Fetch = fetch
	}

	rep.Instructions = append(rep.Instructions, dec)
}

// printCF prints one control-flow entry line.
func (d *Disassembler) printCF(entry *insts.CFEntry, level int) {
	fmt.Fprint(d.w, indent(level))
	if d.cfg.ShowRawWords {
		fmt.Fprintf(d.w, "%08x %08x %08x\t",
			entry.Words[0], entry.Words[1], entry.Words[2])
	}
	if d.cfg.ShowUnknownBits {
		u := entry.UnknownBits()
		fmt.Fprintf(d.w, "%08x %08x %08x\t", u[0], u[1], u[2])
	}
	fmt.Fprintf(d.w, "%02d  CF:\tADDR(0x%x) CNT(0x%x)\n",
		entry.Index, entry.Addr, entry.Count)
}

// slotAt returns the i-th slot of the buffer.
func slotAt(words []uint32, i int) insts.Slot {
	off := i * insts.SlotWords
	return insts.Slot{words[off], words[off+1], words[off+2]}
}

// indent returns the indentation prefix for a nesting level. Negative
// levels clamp to zero; there is no upper bound.
func indent(level int) string {
	if level < 0 {
		level = 0
	}
	return strings.Repeat("\t", level)
}
