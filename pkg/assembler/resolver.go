// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package assembler

import (
	"github.com/hex-lang/gohex/pkg/encoding"
)

// maxResolverPasses bounds the fixpoint loop. Each InstrLabelDirective's
// encoded length only grows when its operand's magnitude crosses a nibble
// boundary, and a program this size cannot cross more boundaries than this
// before the label offsets stop moving; a pass count beyond this indicates
// a bug in the convergence proof, not a legitimately slow program.
const maxResolverPasses = 64

// Resolve computes the final byte offset of every label by iterating label
// placement and instruction length to a fixpoint: widening an
// InstrLabelDirective can push every later label forward, which can in turn
// widen some other instruction, so a single left-to-right pass is not
// sufficient. It mutates the Resolved field of every InstrLabelDirective in
// directives and returns the final label table and total program size in
// bytes.
func Resolve(directives []Directive) (labels map[string]int64, size int64, errs []error) {
	for _, d := range directives {
		if instr, ok := d.(*InstrLabelDirective); ok {
			instr.Resolved = 0
		}
	}

	var offsets []int64

	for pass := 0; pass < maxResolverPasses; pass++ {
		offsets, labels, size = layout(directives)
		changed := false

		for i, d := range directives {
			instr, ok := d.(*InstrLabelDirective)
			if !ok {
				continue
			}

			target, found := labels[instr.Label]
			if !found {
				return nil, 0, []error{&UnknownLabelError{Position: instr.Position, Received: instr.Label}}
			}

			instrStart := offsets[i]
			relative := target - instrStart
			length := encoding.InstrLen(target, instrStart)
			// A small negative offset is emitted with an extra NFIX byte, so
			// widen length until it matches the size the emitter will use.
			for encoding.EncodedSize(int32(relative-length)) > length {
				length++
			}
			resolved := int32(relative - length)

			if resolved != instr.Resolved {
				instr.Resolved = resolved
				changed = true
			}
		}

		if !changed {
			return labels, size, nil
		}
	}

	return labels, size, []error{errResolverDidNotConverge{}}
}

// layout walks directives once, assigning each one its byte offset given
// the current (possibly not-yet-final) Size of every InstrLabelDirective.
// DATA directives are padded up to the next 4-byte boundary, matching the
// word-aligned layout the simulator expects for its memory array.
func layout(directives []Directive) (offsets []int64, labels map[string]int64, total int64) {
	offsets = make([]int64, len(directives))
	labels = make(map[string]int64)

	var pos int64

	for i, d := range directives {
		if _, ok := d.(*DataDirective); ok {
			if pad := pos % 4; pad != 0 {
				pos += 4 - pad
			}
		}

		offsets[i] = pos

		if label, ok := d.(*LabelDirective); ok {
			label.Resolved = pos
			labels[label.Name] = pos
		}

		pos += d.Size()
	}

	return offsets, labels, pos
}

type errResolverDidNotConverge struct{}

func (errResolverDidNotConverge) Error() string {
	return "label resolution did not converge"
}
