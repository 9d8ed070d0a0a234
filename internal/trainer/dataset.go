package trainer

import (
	"math/rand"
	"sort"

	"BreakoutSentinel/internal/calculator"
	"BreakoutSentinel/internal/model"
)

// Dataset is the flat training table built across the universe.
type Dataset struct {
	X       [][]float64
	Y       []int
	Tickers []string // originating ticker per row
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Y) }

// Positives counts positive-label rows.
func (d *Dataset) Positives() int {
	pos := 0
	for _, y := range d.Y {
		pos += y
	}
	return pos
}

func (d *Dataset) append(row []float64, label int, ticker string) {
	d.X = append(d.X, row)
	d.Y = append(d.Y, label)
	d.Tickers = append(d.Tickers, ticker)
}

// BuildDataset derives one labeled row per fully-defined bar with a known
// next bar: label 1 iff the next close is higher. Rows with any undefined
// feature are dropped. Tickers are walked in sorted order so the table is
// reproducible.
func BuildDataset(store map[string]*model.PriceSeries) *Dataset {
	tickers := make([]string, 0, len(store))
	for t := range store {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	ds := &Dataset{}
	for _, ticker := range tickers {
		series := store[ticker]
		frame := calculator.Compute(series)
		for t := 0; t+1 < len(series.Bars); t++ {
			row, ok := model.FeatureVector(frame.Points[t], series.Bars[t].Volume)
			if !ok {
				continue
			}
			label := 0
			if series.Bars[t+1].Close > series.Bars[t].Close {
				label = 1
			}
			ds.append(row, label, ticker)
		}
	}
	return ds
}

// Oversample balances classes by duplicating random minority rows until
// parity. A single-class dataset is returned unchanged; the caller warns
// and continues.
func Oversample(ds *Dataset, rng *rand.Rand) (*Dataset, bool) {
	var posIdx, negIdx []int
	for i, y := range ds.Y {
		if y == 1 {
			posIdx = append(posIdx, i)
		} else {
			negIdx = append(negIdx, i)
		}
	}
	if len(posIdx) == 0 || len(negIdx) == 0 {
		return ds, false
	}

	minority, majority := posIdx, negIdx
	if len(negIdx) < len(posIdx) {
		minority, majority = negIdx, posIdx
	}

	out := &Dataset{
		X:       append([][]float64{}, ds.X...),
		Y:       append([]int{}, ds.Y...),
		Tickers: append([]string{}, ds.Tickers...),
	}
	for i := len(minority); i < len(majority); i++ {
		j := minority[rng.Intn(len(minority))]
		out.append(ds.X[j], ds.Y[j], ds.Tickers[j])
	}
	return out, true
}

// Split holds the three partitions of the training table.
type Split struct {
	Train, Valid, Test *Dataset
}

// StratifiedSplit shuffles each class independently and cuts 70/15/15, so
// both classes keep their share in every partition.
func StratifiedSplit(ds *Dataset, rng *rand.Rand) *Split {
	split := &Split{Train: &Dataset{}, Valid: &Dataset{}, Test: &Dataset{}}
	for _, class := range []int{0, 1} {
		var idx []int
		for i, y := range ds.Y {
			if y == class {
				idx = append(idx, i)
			}
		}
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		trainEnd := int(float64(len(idx)) * 0.70)
		validEnd := int(float64(len(idx)) * 0.85)
		for pos, i := range idx {
			switch {
			case pos < trainEnd:
				split.Train.append(ds.X[i], ds.Y[i], ds.Tickers[i])
			case pos < validEnd:
				split.Valid.append(ds.X[i], ds.Y[i], ds.Tickers[i])
			default:
				split.Test.append(ds.X[i], ds.Y[i], ds.Tickers[i])
			}
		}
	}
	return split
}
