package driver

import (
	"tagcopy/internal/sema"
	"tagcopy/internal/source"
)

// Summary is the render-ready, cacheable outcome of checking one file.
type Summary struct {
	Target         string         `msgpack:"target" json:"target"`
	Transfers      []TransferRow  `msgpack:"transfers" json:"transfers"`
	AlignCalls     []AlignCallRow `msgpack:"align_calls" json:"align_calls"`
	Instantiations []string       `msgpack:"instantiations" json:"instantiations,omitempty"`
}

// TransferRow describes one classified memory transfer.
type TransferRow struct {
	Func        string `msgpack:"func" json:"func"`
	Op          string `msgpack:"op" json:"op"`
	Line        uint32 `msgpack:"line" json:"line"`
	Col         uint32 `msgpack:"col" json:"col"`
	Implicit    bool   `msgpack:"implicit,omitempty" json:"implicit,omitempty"`
	Source      string `msgpack:"src" json:"src"`
	SourceWhy   string `msgpack:"src_why" json:"src_why"`
	DstAlign    int    `msgpack:"dst_align" json:"dst_align"`
	Length      string `msgpack:"len" json:"len"`
	Rule        string `msgpack:"rule" json:"rule"`
	Disposition string `msgpack:"disposition" json:"disposition"`
	Attribute   string `msgpack:"attr" json:"attribute"`
	Warned      bool   `msgpack:"warned,omitempty" json:"warned,omitempty"`
}

// AlignCallRow describes one alignment builtin call.
type AlignCallRow struct {
	Func    string `msgpack:"func" json:"func"`
	Builtin string `msgpack:"builtin" json:"builtin"`
	Line    uint32 `msgpack:"line" json:"line"`
	Col     uint32 `msgpack:"col" json:"col"`
	Outcome string `msgpack:"outcome" json:"outcome"`
}

func buildSummary(res *sema.Result, fs *source.FileSet) Summary {
	sum := Summary{Target: res.Target.Name}
	if len(res.Instantiations) > 0 {
		sum.Instantiations = append([]string(nil), res.Instantiations...)
	}
	for i := range res.Transfers {
		tr := &res.Transfers[i]
		pos, _ := fs.Resolve(tr.Span)
		sum.Transfers = append(sum.Transfers, TransferRow{
			Func:        tr.Func,
			Op:          tr.Op.String(),
			Line:        pos.Line,
			Col:         pos.Col,
			Implicit:    tr.Implicit,
			Source:      typeLabel(tr),
			SourceWhy:   tr.Result.Source.String(),
			DstAlign:    tr.Dst.DeclaredAlign,
			Length:      tr.Length.String(),
			Rule:        tr.Result.Rule.String(),
			Disposition: tr.Result.Disposition.String(),
			Attribute:   tr.Result.Disposition.Attribute(),
			Warned:      tr.Result.Warning != nil,
		})
	}
	for i := range res.AlignCalls {
		ac := &res.AlignCalls[i]
		pos, _ := fs.Resolve(ac.Call.Span)
		sum.AlignCalls = append(sum.AlignCalls, AlignCallRow{
			Func:    ac.Func,
			Builtin: ac.Call.Builtin.String(),
			Line:    pos.Line,
			Col:     pos.Col,
			Outcome: ac.Outcome.String(),
		})
	}
	return sum
}

func typeLabel(tr *sema.Transfer) string {
	if tr.Src.Type == nil {
		return "?"
	}
	return tr.Src.Type.String()
}

// Warnings counts transfers that raised the underaligned-destination warning.
func (s *Summary) Warnings() int {
	n := 0
	for i := range s.Transfers {
		if s.Transfers[i].Warned {
			n++
		}
	}
	return n
}
