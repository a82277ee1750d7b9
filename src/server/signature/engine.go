// Package signature produces overload help for the call expression around
// the cursor: every overload the frontend reports, in its order, with the
// active parameter derived from the argument text already typed.
package signature

import (
	"strings"

	"go.lsp.dev/protocol"

	"lsp-core/src/server/frontend"
)

// Engine runs signature help requests. It holds no per-request state.
type Engine struct {
	fe frontend.Frontend
}

// NewEngine creates an engine over a frontend.
func NewEngine(fe frontend.Frontend) *Engine {
	return &Engine{fe: fe}
}

// Help returns overload help for the call around pos. Outside a call the
// result is absent, not an error: both returns are nil. A position outside
// the document is a validation error.
func (e *Engine) Help(snap frontend.Snapshot, pos protocol.Position) (*protocol.SignatureHelp, error) {
	cursor, err := snap.OffsetFor(pos)
	if err != nil {
		return nil, err
	}

	call, ok := e.fe.CallContext(snap, pos)
	if !ok || call == nil || len(call.Overloads) == 0 {
		return nil, nil
	}

	sigs := make([]protocol.SignatureInformation, 0, len(call.Overloads))
	for _, ov := range call.Overloads {
		sigs = append(sigs, renderSignature(ov))
	}

	// The first signature is always preferred; clients that want a smarter
	// choice can reorder on their side.
	return &protocol.SignatureHelp{
		Signatures:      sigs,
		ActiveSignature: 0,
		ActiveParameter: activeParameter(snap.Text(), call.ArgsStart, cursor),
	}, nil
}

// activeParameter counts the commas between the argument start and the
// cursor at bracket depth zero. Commas nested in (), [], or {} separate
// inner expressions, not arguments of this call.
func activeParameter(text string, argsStart, cursor int) uint32 {
	if argsStart < 0 {
		argsStart = 0
	}
	if cursor > len(text) {
		cursor = len(text)
	}
	if cursor < argsStart {
		return 0
	}

	depth := 0
	active := uint32(0)
	for i := argsStart; i < cursor; i++ {
		switch text[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				active++
			}
		}
	}
	return active
}

// renderSignature renders one overload as "name(p1, p2) -> ret". The arrow
// is omitted for overloads without a return type, such as constructors.
func renderSignature(ov frontend.Overload) protocol.SignatureInformation {
	var sb strings.Builder
	sb.WriteString(ov.Name)
	sb.WriteByte('(')
	sb.WriteString(strings.Join(ov.Params, ", "))
	sb.WriteByte(')')
	if ov.ReturnType != "" {
		sb.WriteString(" -> ")
		sb.WriteString(ov.ReturnType)
	}

	params := make([]protocol.ParameterInformation, 0, len(ov.Params))
	for _, p := range ov.Params {
		params = append(params, protocol.ParameterInformation{Label: p})
	}
	return protocol.SignatureInformation{
		Label:      sb.String(),
		Parameters: params,
	}
}
