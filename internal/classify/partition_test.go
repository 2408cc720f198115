package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type rec struct {
	Name  string
	Score int
	Tag   string
}

func sampleRecs() []rec {
	return []rec{
		{"delta", 4, "x"},
		{"alpha", 1, "y"},
		{"charlie", 3, "x"},
		{"bravo", 2, "y"},
		{"echo", 5, "z"},
	}
}

func sampleBuckets() []Bucket[rec] {
	return []Bucket[rec]{
		{Name: "x", Match: func(r rec) bool { return r.Tag == "x" }, Less: func(a, b rec) bool { return a.Score < b.Score }},
		{Name: "high", Match: func(r rec) bool { return r.Score >= 3 }},
		{Name: "none", Match: func(r rec) bool { return false }},
	}
}

func TestPartitionCountsMatchItems(t *testing.T) {
	p := Partition(sampleRecs(), sampleBuckets()...)
	assert.Len(t, p, 3)
	for name, r := range p {
		assert.Equal(t, len(r.Items), r.Count, "bucket %s", name)
	}
	assert.Equal(t, map[string]int{"x": 2, "high": 3, "none": 0}, p.Counts())
	assert.NotNil(t, p["none"].Items)
}

func TestPartitionSortsOnlyWithLess(t *testing.T) {
	p := Partition(sampleRecs(), sampleBuckets()...)
	assert.Equal(t, []rec{{"charlie", 3, "x"}, {"delta", 4, "x"}}, p["x"].Items)
	// insertion order is kept when no Less is given
	assert.Equal(t, []string{"delta", "charlie", "echo"}, names(p["high"].Items))
}

func TestPartitionDoesNotMutateInput(t *testing.T) {
	in := sampleRecs()
	before := append([]rec(nil), in...)
	p := Partition(in, sampleBuckets()...)
	assert.Equal(t, before, in)

	p["x"].Items[0].Name = "changed"
	assert.Equal(t, before, in)
}

func TestPartitionIdempotent(t *testing.T) {
	in := sampleRecs()
	assert.Equal(t, Partition(in, sampleBuckets()...), Partition(in, sampleBuckets()...))
}

func TestPartitionBucketsMayOverlapOrExclude(t *testing.T) {
	p := Partition(sampleRecs(), sampleBuckets()...)
	assert.Contains(t, names(p["x"].Items), "charlie")
	assert.Contains(t, names(p["high"].Items), "charlie")
	for _, r := range p {
		assert.NotContains(t, names(r.Items), "alpha")
	}
}

func TestPartitionsGetMissing(t *testing.T) {
	p := Partition(sampleRecs(), sampleBuckets()...)
	r := p.Get("missing")
	assert.Equal(t, 0, r.Count)
	assert.Empty(t, r.Items)
}

func names(rs []rec) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Name)
	}
	return out
}
