package tangent

import (
	"math"
	"math/rand"
	"sort"

	"github.com/kovidgoyal/metamer/mechanism"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
)

func gaussian(x, mu, sigma float64) float64 {
	d := (x - mu) / sigma
	return math.Exp(-0.5 * d * d)
}

func wavelength(j, samples int) float64 {
	return 400 + 300*float64(j)/float64(samples-1)
}

func illuminant_a(wl float64) float64 { return math.Pow(wl/560, 4) }
func illuminant_d(wl float64) float64 { return 1 + 0.25*math.Sin(wl/37) }

// mechanism_rows returns one row per center of gaussian sensitivities
// weighted by il, normalized so that the row with index norm_row sums to 100.
func mechanism_rows(samples int, centers []float64, il func(float64) float64, norm_row int) [][]float64 {
	rows := make([][]float64, len(centers))
	for i, c := range centers {
		rows[i] = make([]float64, samples)
		for j := range samples {
			wl := wavelength(j, samples)
			rows[i][j] = gaussian(wl, c, 40) * il(wl)
		}
	}
	scale := 100 / floats.Sum(rows[norm_row])
	for _, r := range rows {
		floats.Scale(scale, r)
	}
	return rows
}

func planar_model(samples int) *mechanism.Model {
	centers := []float64{550}
	m, err := mechanism.FromRows(mechanism_rows(samples, centers, illuminant_a, 0), mechanism_rows(samples, centers, illuminant_d, 0), zerolog.Nop())
	if err != nil {
		panic(err)
	}
	return m
}

func model_of_dim(samples int, centers []float64) *mechanism.Model {
	norm := len(centers) / 2
	m, err := mechanism.FromRows(mechanism_rows(samples, centers, illuminant_a, norm), mechanism_rows(samples, centers, illuminant_d, norm), zerolog.Nop())
	if err != nil {
		panic(err)
	}
	return m
}

func uniform_signal(m *mechanism.Model, value float64) []float64 {
	ans := make([]float64, m.DimPhi)
	for j := range m.NumSamples {
		g := m.Generator(j)
		for i := range ans {
			ans[i] += value * g[i]
		}
	}
	return ans
}

// knapsack returns the extreme of b · r subject to a · r == c and r in
// [0, 1]^n, filling samples greedily by their b/a ratio.
func knapsack(a, b []float64, c float64, maximize bool) float64 {
	idx := make([]int, len(a))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		ri, rj := b[idx[i]]/a[idx[i]], b[idx[j]]/a[idx[j]]
		if maximize {
			return ri > rj
		}
		return ri < rj
	})
	var ans float64
	for _, i := range idx {
		take := math.Min(1, c/a[i])
		ans += take * b[i]
		c -= take * a[i]
		if c <= 0 {
			break
		}
	}
	return ans
}

func circle_directions(count int) [][]float64 {
	ans := make([][]float64, count)
	for i := range ans {
		s, c := math.Sincos(2 * math.Pi * float64(i) / float64(count))
		ans[i] = []float64{c, s}
	}
	return ans
}

// icosphere_directions returns the 42 vertices of a once subdivided
// icosahedron projected onto the unit sphere.
func icosphere_directions() [][]float64 {
	phi := (1 + math.Sqrt(5)) / 2
	verts := [][]float64{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	edge := 2.0
	ans := make([][]float64, 0, 42)
	for _, v := range verts {
		ans = append(ans, unit(v))
	}
	for i := range verts {
		for j := i + 1; j < len(verts); j++ {
			d := make([]float64, 3)
			floats.SubTo(d, verts[i], verts[j])
			if math.Abs(floats.Norm(d, 2)-edge) < 1e-9 {
				mid := make([]float64, 3)
				floats.AddTo(mid, verts[i], verts[j])
				ans = append(ans, unit(mid))
			}
		}
	}
	return ans
}

func unit(v []float64) []float64 {
	ans := append([]float64(nil), v...)
	floats.Scale(1/floats.Norm(ans, 2), ans)
	return ans
}

func random_unit(rng *rand.Rand, dims int) []float64 {
	v := make([]float64, dims)
	for i := range v {
		v[i] = rng.NormFloat64()
	}
	return unit(v)
}
