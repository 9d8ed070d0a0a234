package trainer

import (
	"fmt"
	"strings"

	"BreakoutSentinel/internal/classifier"
)

// ClassMetrics holds precision/recall/F1 for one label.
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report is the held-out evaluation of a fitted model.
type Report struct {
	Accuracy   float64
	PerClass   map[int]ClassMetrics
	Samples    int
	Positives  int
	Balanced   bool
	BestParams classifier.ForestParams
}

// Evaluate scores a fitted forest on a partition.
func Evaluate(forest *classifier.Forest, ds *Dataset) Report {
	tp := map[int]int{}
	fp := map[int]int{}
	fn := map[int]int{}
	support := map[int]int{}
	correct := 0

	for i, row := range ds.X {
		pred := forest.Predict(row)
		truth := ds.Y[i]
		support[truth]++
		if pred == truth {
			correct++
			tp[truth]++
		} else {
			fp[pred]++
			fn[truth]++
		}
	}

	report := Report{PerClass: map[int]ClassMetrics{}, Samples: ds.Len(), Positives: ds.Positives()}
	if ds.Len() > 0 {
		report.Accuracy = float64(correct) / float64(ds.Len())
	}
	for _, class := range []int{0, 1} {
		m := ClassMetrics{Support: support[class]}
		if tp[class]+fp[class] > 0 {
			m.Precision = float64(tp[class]) / float64(tp[class]+fp[class])
		}
		if tp[class]+fn[class] > 0 {
			m.Recall = float64(tp[class]) / float64(tp[class]+fn[class])
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.PerClass[class] = m
	}
	return report
}

// String renders the report as a compact table.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "accuracy=%.3f samples=%d positives=%d\n", r.Accuracy, r.Samples, r.Positives)
	for _, class := range []int{0, 1} {
		m := r.PerClass[class]
		fmt.Fprintf(&b, "class %d: precision=%.3f recall=%.3f f1=%.3f support=%d\n",
			class, m.Precision, m.Recall, m.F1, m.Support)
	}
	return b.String()
}
