package hist

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
	"toolbox/infra/trace"
)

func TestBuildTwoBins(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	h, err := Build(values, 2)
	require.NoError(t, err)

	bins := h.Bins()
	require.Len(t, bins, 2)
	assert.Equal(t, HistogramBin{From: 1, To: 5.5, Count: 5}, bins[0])
	assert.Equal(t, HistogramBin{From: 5.5, To: 10, Count: 5}, bins[1])
	assert.Equal(t, 10, h.Total())
}

func TestBuildUnsortedMixedSign(t *testing.T) {
	values := []float64{3, -3, 0, 3, -1.5, 1.5, -3}

	h, err := Build(values, 4)
	require.NoError(t, err)

	counts := make([]int, 0, h.Len())
	for _, b := range h.Bins() {
		counts = append(counts, b.Count)
	}
	// [-3,-1.5) [-1.5,0) [0,1.5) [1.5,3]
	assert.Equal(t, []int{2, 1, 1, 3}, counts)
}

func TestBuildInvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		samples []float64
		nBins   int
		code    errCode.ErrCode
	}{
		{"empty", nil, 3, errCode.INVALID_VALUE},
		{"zero bins", []float64{1, 2}, 0, errCode.INVALID_VALUE},
		{"negative bins", []float64{1, 2}, -1, errCode.INVALID_VALUE},
		{"nan", []float64{1, math.NaN()}, 2, errCode.INVALID_VALUE},
		{"inf", []float64{1, math.Inf(1)}, 2, errCode.INVALID_VALUE},
		{"overflowing range", []float64{-math.MaxFloat64, math.MaxFloat64}, 2, errCode.INVALID_VALUE},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := Build(tc.samples, tc.nBins)
			require.Error(t, err)
			assert.Nil(t, h)
			assert.Equal(t, tc.code, errorx.Code(err))
		})
	}
}

func TestBuildInvalidMatchesSentinel(t *testing.T) {
	_, err := Build([]float64{1, 2}, 0)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestDegenerateReject(t *testing.T) {
	h, err := Build([]float64{5, 5, 5, 5}, 3)
	require.Error(t, err)
	assert.Nil(t, h)
	assert.ErrorIs(t, err, ErrDegenerateRange)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDegenerateSingleBin(t *testing.T) {
	h, err := Build([]float64{5, 5, 5, 5}, 3, WithDegeneratePolicy(DEGENERATE_SINGLE_BIN))
	require.NoError(t, err)

	require.Equal(t, 1, h.Len())
	assert.Equal(t, HistogramBin{From: 5, To: 5, Count: 4}, h.Bins()[0])

	out, err := h.Render(DefaultRenderOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.True(t, strings.HasPrefix(out, "\n[ 5.0,  5.0] "))
	assert.Equal(t, 200, strings.Count(out, "|"))
}

func TestBuildProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, nBins := range []int{1, 2, 3, 7, 15, 50} {
		samples := make([]float64, 1000)
		for i := range samples {
			samples[i] = rng.NormFloat64()*10 + 3
		}
		maxV := samples[0]
		for _, v := range samples {
			maxV = math.Max(maxV, v)
		}

		h, err := Build(samples, nBins)
		require.NoError(t, err)
		bins := h.Bins()
		require.Len(t, bins, nBins)

		sum := 0
		for i, b := range bins {
			sum += b.Count
			assert.Less(t, b.From, b.To, "bin %d not increasing", i)
			if i > 0 {
				assert.Equal(t, bins[i-1].To, b.From, "bins %d and %d not contiguous", i-1, i)
			}
		}
		assert.Equal(t, len(samples), sum)
		assert.Equal(t, maxV, bins[nBins-1].To)
		assert.Equal(t, nBins-1, binIndex(maxV, bins[0].From, (maxV-bins[0].From)/float64(nBins), bins))
	}
}

// 0.1 网格上的样本经常正好落在 minV+i*width 上
func TestBuildCountsMatchStoredBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for round := 0; round < 2000; round++ {
		samples := make([]float64, 2+rng.Intn(30))
		for i := range samples {
			samples[i] = float64(rng.Intn(1000)) / 10
		}
		nBins := 1 + rng.Intn(12)

		h, err := Build(samples, nBins)
		if errors.Is(err, ErrDegenerateRange) {
			continue
		}
		require.NoError(t, err)
		bins := h.Bins()

		want := make([]int, len(bins))
		for _, v := range samples {
			hits := 0
			for i, b := range bins {
				last := i == len(bins)-1
				if b.From <= v && (v < b.To || (last && v <= b.To)) {
					want[i]++
					hits++
				}
			}
			require.Equal(t, 1, hits, "v=%v bins=%v", v, bins)
		}
		for i, b := range bins {
			assert.Equal(t, want[i], b.Count, "bin %d [%v, %v) samples=%v", i, b.From, b.To, samples)
		}
	}
}

func TestBuildBoundaryValues(t *testing.T) {
	// (57.3-23.2)/width 向下取整与存储的边界 minV+i*width 不一致
	h, err := Build([]float64{23.2, 57.3, 91.4}, 10)
	require.NoError(t, err)
	bins := h.Bins()
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 1, bins[len(bins)-1].Count)

	found := false
	for _, b := range bins[1 : len(bins)-1] {
		if b.Count == 1 {
			found = true
			assert.LessOrEqual(t, b.From, 57.3)
			assert.Less(t, 57.3, b.To)
		}
	}
	assert.True(t, found)
}

func TestBuildRejectsCollapsedBins(t *testing.T) {
	_, err := Build([]float64{1e16, 1e16 + 2}, 8)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// 同一量级、箱数少时仍然可分
	h, err := Build([]float64{1e16, 1e16 + 2}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, h.Bins()[0].Count)
}

func TestMaxLandsInLastBin(t *testing.T) {
	h, err := Build([]float64{0, 0.1, 0.2, 0.3}, 3)
	require.NoError(t, err)
	bins := h.Bins()
	assert.GreaterOrEqual(t, bins[2].Count, 1)
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	_, err := Build(values, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestSummary(t *testing.T) {
	h, err := Build([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 4)
	require.NoError(t, err)

	s := h.Summary()
	assert.Equal(t, 8, s.N)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	assert.InDelta(t, 2.138089935, s.StdDev, 1e-9)
}

func TestBuildTrace(t *testing.T) {
	tr := trace.New()
	_, err := Build([]float64{1, 2, 3}, 2, WithTrace(tr))
	require.NoError(t, err)
	assert.Equal(t, []string{"scan", "bin"}, tr.Stages())
	assert.Equal(t, 2, tr.Events[1].Fields["n_bins"])
}

func BenchmarkBuild(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	samples := make([]float64, 100_000)
	for i := range samples {
		samples[i] = rng.NormFloat64()
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Build(samples, 50)
	}
}
