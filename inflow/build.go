package inflow

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"
)

var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// coerce normalizes a raw timestamp to UTC. All orderings downstream use
// this representation exclusively.
func coerce(raw string) (time.Time, bool) {
	for _, l := range layouts {
		if t, err := time.Parse(l, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FromRows compiles raw observations into a Series: timestamps coerced to
// UTC and sorted ascending, unparseable rows dropped, missing cells
// zero-filled. A later duplicate of the same (reservoir, timestamp) cell
// overwrites the earlier one.
func FromRows(rows []Row) *Series {
	type obs struct {
		t   time.Time
		id  string
		cfs float64
	}
	var good []obs
	tset := make(map[int64]time.Time)
	xr := make(map[string]int)
	ndropped := 0
	for _, r := range rows {
		t, ok := coerce(r.T)
		if !ok {
			ndropped++
			continue
		}
		good = append(good, obs{t, r.ID, r.Cfs})
		tset[t.Unix()] = t
		if _, ok := xr[r.ID]; !ok {
			xr[r.ID] = len(xr)
		}
	}
	if ndropped > 0 {
		fmt.Printf("     Total unparseable inflow rows dropped = %d\n", ndropped)
	}

	ts := make([]time.Time, 0, len(tset))
	for _, t := range tset {
		ts = append(ts, t)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
	tx := make(map[int64]int, len(ts))
	for j, t := range ts {
		tx[t.Unix()] = j
	}

	q := make([][]float64, len(xr))
	for k := range q {
		q[k] = make([]float64, len(ts))
	}
	for _, o := range good {
		q[xr[o.id]][tx[o.t.Unix()]] = o.cfs
	}

	s := Series{T: ts, XR: xr, Q: q, IntervalSec: 3600.}
	if len(ts) > 1 {
		s.IntervalSec = ts[1].Sub(ts[0]).Seconds()
	}
	return &s
}

// FromCsv reads a headered timestamp,reservoir_id,inflow_cfs table. Rows
// with malformed timestamps or flows are dropped, not fatal.
func FromCsv(fp string) (*Series, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf(" inflow.FromCsv %v", err)
	}
	defer f.Close()

	rdr := csv.NewReader(f)
	rdr.FieldsPerRecord = -1
	recs, err := rdr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf(" inflow.FromCsv %s: %v", fp, err)
	}
	rows := make([]Row, 0, len(recs))
	for i, rec := range recs {
		if i == 0 || len(rec) != 3 {
			continue // header and malformed rows
		}
		cfs, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			continue
		}
		rows = append(rows, Row{T: rec[0], ID: rec[1], Cfs: cfs})
	}
	return FromRows(rows), nil
}
