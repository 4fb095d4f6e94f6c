package colorconv

import (
	"math"
)

// This package converts tristimulus values produced by a color mechanism
// into CIELAB relative to the mechanism's own white (the signal of the
// perfect reflector), and into sRGB for previews. Chromatic adaptation
// between whites uses the Bradford transform.
//
// Notes:
// - Whites are normalized internally so that Y = 1.0, so the scale of the
//   mechanism (e.g. Y of the white = 100) does not matter.
// - sRGB values are in [0,1]; out of gamut colors are clipped.

type Vec3 [3]float64
type Mat3 [3][3]float64

// Standard reference white (CIE XYZ) normalized so Y = 1.0
var WhiteD65 = Vec3{0.95047, 1.00000, 1.08883}

// Bradford transform matrices (forward and inverse)
var (
	bradford = Mat3{
		{0.8951, 0.2664, -0.1614},
		{-0.7502, 1.7135, 0.0367},
		{0.0389, -0.0685, 1.0296},
	}
	invBradford = Mat3{
		{0.9869929, -0.1470543, 0.1599627},
		{0.4323053, 0.5183603, 0.0492912},
		{-0.0085287, 0.0400428, 0.9684867},
	}
)

// sRGB (linear) transform matrix from CIE XYZ (D65)
var srgbFromXYZ = Mat3{
	{3.2406, -1.5372, -0.4986},
	{-0.9689, 1.8758, 0.0415},
	{0.0557, -0.2040, 1.0570},
}

// FromSlice converts the first three components of v.
func FromSlice(v []float64) Vec3 { return Vec3{v[0], v[1], v[2]} }

// Normalized returns w scaled so that its Y component is 1.
func (w Vec3) Normalized() Vec3 {
	if w[1] == 0 {
		return w
	}
	return Vec3{w[0] / w[1], 1, w[2] / w[1]}
}

// lab_f is the CIELAB companding function, linear below (6/29)^3.
func lab_f(t float64) float64 {
	const epsilon, kappa = 216.0 / 24389.0, 24389.0 / 27.0
	if t > epsilon {
		return math.Cbrt(t)
	}
	return (kappa*t + 16) / 116
}

// XYZToLab converts XYZ into CIELAB relative to white. xyz and white must be
// on the same scale.
func XYZToLab(xyz, white Vec3) Vec3 {
	fx, fy, fz := lab_f(xyz[0]/white[0]), lab_f(xyz[1]/white[1]), lab_f(xyz[2]/white[2])
	return Vec3{116*fy - 16, 500 * (fx - fy), 200 * (fy - fz)}
}

// ChromaticAdaptationMatrix constructs a 3x3 matrix that adapts XYZ values
// from sourceWhite to targetWhite using the Bradford method. Both whites are
// normalized to Y = 1 first.
func ChromaticAdaptationMatrix(sourceWhite, targetWhite Vec3) Mat3 {
	src, tgt := bradford.Apply(sourceWhite.Normalized()), bradford.Apply(targetWhite.Normalized())
	var scale Mat3
	for i := range 3 {
		scale[i][i] = tgt[i] / src[i]
	}
	return invBradford.Mul(scale.Mul(bradford))
}

// Apply returns m · v.
func (m Mat3) Apply(v Vec3) (ans Vec3) {
	for i, row := range m {
		ans[i] = row[0]*v[0] + row[1]*v[1] + row[2]*v[2]
	}
	return
}

// Mul returns m · o.
func (m Mat3) Mul(o Mat3) (ans Mat3) {
	for i := range 3 {
		for j := range 3 {
			ans[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j]
		}
	}
	return
}

// XYZToSRGB converts xyz, expressed on the scale of white, into clipped
// gamma corrected sRGB after adapting white to D65.
func XYZToSRGB(xyz, white Vec3) (rgb Vec3) {
	n := white[1]
	if n == 0 {
		n = 1
	}
	linear := srgbFromXYZ.Apply(ChromaticAdaptationMatrix(white, WhiteD65).Apply(Vec3{xyz[0] / n, xyz[1] / n, xyz[2] / n}))
	for i, c := range linear {
		rgb[i] = clamp01(srgb_gamma(c))
	}
	return
}

// Hex formats an sRGB triple in [0,1] as #rrggbb.
func (v Vec3) Hex() string {
	const digits = "0123456789abcdef"
	buf := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, c := range v {
		q := uint8(math.Round(clamp01(c) * 255))
		buf[1+2*i], buf[2+2*i] = digits[q>>4], digits[q&0xf]
	}
	return string(buf)
}

// srgb_gamma is the sRGB transfer function, negative input maps to 0.
func srgb_gamma(c float64) float64 {
	switch {
	case c <= 0:
		return 0
	case c <= 0.0031308:
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

func clamp01(x float64) float64 { return max(0, min(x, 1)) }
