package check

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/genfile/container"
	"github.com/arloliu/genfile/internal/options"
	"github.com/arloliu/genfile/section"
)

const compareChunkRows = 4096

// pair is a dataset present in both files.
type pair struct {
	path           string
	eGroup, eIndex int
	aGroup, aIndex int
	rows           int
	columns        []section.ColumnInfo
}

type dataSetResult struct {
	diffs     []Difference
	columns   []ColumnSummary
	identical bool
}

// Compare compares actual against expected: file type, locale, parameters,
// parent types, groups, datasets, column definitions, row counts and every
// payload cell. File ids and creation times are not compared.
//
// Datasets present in both files are compared in parallel. A dataset whose
// payload digest matches is identical without decoding. Float32 cells and
// parameters match within the configured tolerance; NaN matches NaN.
//
// The returned error reports read failures and cancellation only;
// differences are listed in the Report.
func Compare(ctx context.Context, expected, actual *container.File, opts ...Option) (*Report, error) {
	cfg, err := options.Build(defaultConfig, opts...)
	if err != nil {
		return nil, err
	}

	eh, ah := expected.Header(), actual.Header()
	r := &Report{}
	pairs := compareHeaders(r, eh, ah, cfg)

	results := make([]dataSetResult, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)
	for i, p := range pairs {
		g.Go(func() error {
			res, err := compareDataSet(gctx, expected, actual, p, cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", p.path, err)
			}
			results[i] = res

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, res := range results {
		r.Differences = append(r.Differences, res.diffs...)
		r.Columns = append(r.Columns, res.columns...)
		r.DataSetsCompared++
		if res.identical {
			r.DataSetsIdentical++
		}
	}

	cfg.logger.Debug("compared files",
		zap.Int("data_sets", r.DataSetsCompared),
		zap.Int("identical", r.DataSetsIdentical),
		zap.Int("differences", len(r.Differences)))

	return r, nil
}

func (r *Report) add(path string, expected, actual any) {
	r.Differences = append(r.Differences, Difference{Path: path, Expected: expected, Actual: actual})
}

// compareHeaders records header differences and returns the datasets whose
// payloads can be compared cell by cell.
func compareHeaders(r *Report, eh, ah *section.FileHeader, cfg *config) []pair {
	if eh.Generic.FileTypeID != ah.Generic.FileTypeID {
		r.add("file type", eh.Generic.FileTypeID, ah.Generic.FileTypeID)
	}
	if eh.Generic.Locale != ah.Generic.Locale {
		r.add("locale", eh.Generic.Locale, ah.Generic.Locale)
	}
	compareParameters(r, "file", eh.Generic.Params, ah.Generic.Params, cfg)

	ep, ap := parentTypes(eh.Generic), parentTypes(ah.Generic)
	if fmt.Sprint(ep) != fmt.Sprint(ap) {
		r.add("parents", ep, ap)
	}

	var pairs []pair
	for egi, eg := range eh.Groups {
		gpath := fmt.Sprintf("group %q", eg.Name)
		agi := ah.GroupIndex(eg.Name)
		if agi < 0 {
			r.add(gpath, "present", "missing")
			continue
		}
		ag := ah.Groups[agi]

		for edi, eds := range eg.DataSets {
			dpath := fmt.Sprintf("%s/data set %q", gpath, eds.Name)
			adi := ag.DataSetIndex(eds.Name)
			if adi < 0 {
				r.add(dpath, "present", "missing")
				continue
			}
			ads := ag.DataSets[adi]

			if eds.Rows != ads.Rows {
				r.add(dpath+"/rows", eds.Rows, ads.Rows)
			}
			compareParameters(r, dpath, eds.Params, ads.Params, cfg)
			if !compareColumns(r, dpath, eds.Columns, ads.Columns) {
				continue
			}

			pairs = append(pairs, pair{
				path:    dpath,
				eGroup:  egi,
				eIndex:  edi,
				aGroup:  agi,
				aIndex:  adi,
				rows:    min(eds.Rows, ads.Rows),
				columns: eds.Columns,
			})
		}

		for _, ads := range ag.DataSets {
			if eg.DataSetIndex(ads.Name) < 0 {
				r.add(fmt.Sprintf("%s/data set %q", gpath, ads.Name), "missing", "present")
			}
		}
	}

	for _, ag := range ah.Groups {
		if eh.GroupIndex(ag.Name) < 0 {
			r.add(fmt.Sprintf("group %q", ag.Name), "missing", "present")
		}
	}

	return pairs
}

func parentTypes(h *section.GenericDataHeader) []string {
	var out []string
	h.WalkParents(func(p *section.GenericDataHeader, _ int) bool {
		out = append(out, p.FileTypeID)
		return true
	})

	return out
}

func compareParameters(r *Report, path string, expected, actual section.Parameters, cfg *config) {
	for _, ep := range expected {
		if cfg.ignored[ep.Name] {
			continue
		}
		ppath := fmt.Sprintf("%s/parameter %q", path, ep.Name)
		ap, ok := actual.Find(ep.Name)
		switch {
		case !ok:
			r.add(ppath, ep.Value, nil)
		case ep.Type != ap.Type:
			r.add(ppath+"/type", ep.Type, ap.Type)
		case !valueEqual(ep.Value, ap.Value, cfg.tolerance):
			r.add(ppath, ep.Value, ap.Value)
		}
	}

	for _, ap := range actual {
		if cfg.ignored[ap.Name] {
			continue
		}
		if _, ok := expected.Find(ap.Name); !ok {
			r.add(fmt.Sprintf("%s/parameter %q", path, ap.Name), nil, ap.Value)
		}
	}
}

func valueEqual(e, a any, tol float64) bool {
	ef, eok := e.(float32)
	af, aok := a.(float32)
	if eok && aok {
		return floatEqual(ef, af, tol)
	}

	return e == a
}

func floatEqual(e, a float32, tol float64) bool {
	if e == a {
		return true
	}
	en, an := math.IsNaN(float64(e)), math.IsNaN(float64(a))
	if en || an {
		return en && an
	}

	return math.Abs(float64(e)-float64(a)) <= tol
}

// compareColumns records column definition differences and reports whether
// the payloads share a layout.
func compareColumns(r *Report, path string, expected, actual []section.ColumnInfo) bool {
	if len(expected) != len(actual) {
		r.add(path+"/columns", len(expected), len(actual))
		return false
	}

	same := true
	for i, ec := range expected {
		ac := actual[i]
		cpath := fmt.Sprintf("%s/column %d", path, i)
		if ec.Name != ac.Name {
			r.add(cpath+"/name", ec.Name, ac.Name)
		}
		if ec.Type != ac.Type || ec.Width != ac.Width {
			r.add(cpath+"/type", fmt.Sprintf("%s(%d)", ec.Type, ec.Width), fmt.Sprintf("%s(%d)", ac.Type, ac.Width))
			same = false
		}
	}

	return same
}

func compareDataSet(ctx context.Context, expected, actual *container.File, p pair, cfg *config) (dataSetResult, error) {
	var res dataSetResult

	ev, err := expected.DataSetAt(p.eGroup, p.eIndex)
	if err != nil {
		return res, err
	}
	av, err := actual.DataSetAt(p.aGroup, p.aIndex)
	if err != nil {
		return res, err
	}

	if ev.Rows() == av.Rows() {
		es, err := ev.Checksum()
		if err != nil {
			return res, err
		}
		as, err := av.Checksum()
		if err != nil {
			return res, err
		}
		if es == as {
			res.identical = true
			cfg.logger.Debug("data set digests match", zap.String("path", p.path), zap.Uint64("digest", es))

			return res, nil
		}
	}

	for ci, c := range p.columns {
		cpath := fmt.Sprintf("%s/column %q", p.path, c.Name)
		cells := 0
		for start := 0; start < p.rows; start += compareChunkRows {
			if err := ctx.Err(); err != nil {
				return res, err
			}

			n := min(compareChunkRows, p.rows-start)
			e, err := ev.GetRange(ci, start, n)
			if err != nil {
				return res, err
			}
			a, err := av.GetRange(ci, start, n)
			if err != nil {
				return res, err
			}

			diffCells(e, a, cfg.tolerance, func(i int, ec, ac any) {
				if cells < cfg.maxCells {
					res.diffs = append(res.diffs, Difference{
						Path:     fmt.Sprintf("%s/row %d", cpath, start+i),
						Expected: ec,
						Actual:   ac,
					})
				}
				cells++
			})
		}
		if cells > 0 {
			res.columns = append(res.columns, ColumnSummary{Path: cpath, Cells: cells})
		}
	}

	res.identical = len(res.diffs) == 0 && len(res.columns) == 0 && ev.Rows() == av.Rows()

	return res, nil
}

// diffCells calls visit for every index where the typed slices e and a differ.
// Both slices hold the same column type.
func diffCells(e, a any, tol float64, visit func(i int, ec, ac any)) {
	switch es := e.(type) {
	case []float32:
		as, _ := a.([]float32)
		for i := range min(len(es), len(as)) {
			if !floatEqual(es[i], as[i], tol) {
				visit(i, es[i], as[i])
			}
		}
	case []int8:
		diffExact(es, a, visit)
	case []uint8:
		diffExact(es, a, visit)
	case []int16:
		diffExact(es, a, visit)
	case []uint16:
		diffExact(es, a, visit)
	case []int32:
		diffExact(es, a, visit)
	case []uint32:
		diffExact(es, a, visit)
	case []string:
		diffExact(es, a, visit)
	}
}

func diffExact[T comparable](es []T, a any, visit func(i int, ec, ac any)) {
	as, _ := a.([]T)
	for i := range min(len(es), len(as)) {
		if es[i] != as[i] {
			visit(i, es[i], as[i])
		}
	}
}
