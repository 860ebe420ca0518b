// SPDX-License-Identifier: EPL-2.0

package utils

// CatmullRom evaluates the Catmull-Rom spline through four consecutive
// samples at fraction x in [0, 1] between w[1] and w[2]. It passes through
// w[1] at x=0 and w[2] at x=1 and reproduces straight lines exactly.
func CatmullRom(w [4]float32, x float32) float32 {
	c3 := 0.5 * (-w[0] + 3*w[1] - 3*w[2] + w[3])
	c2 := w[0] - 2.5*w[1] + 2*w[2] - 0.5*w[3]
	c1 := 0.5 * (w[2] - w[0])

	return ((c3*x+c2)*x+c1)*x + w[1]
}
