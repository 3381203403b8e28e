package v3d

import (
	"math"
)

// PackWeights quantizes four non-negative influence weights into bytes
// summing exactly to 255: normalize, round, then add the rounding
// remainder to the largest weight's byte. A weightless vertex gets its
// full weight on slot 0.
func PackWeights(weights [4]float32) [4]uint8 {
	var sum float64
	for _, w := range weights {
		if w > 0 {
			sum += float64(w)
		}
	}
	if sum <= 0 {
		return [4]uint8{255, 0, 0, 0}
	}

	var packed [4]uint8
	total := 0
	largest := 0
	for i, w := range weights {
		if w < 0 {
			w = 0
		}
		v := int(math.Round(float64(w) / sum * 255))
		if v > 255 {
			v = 255
		}
		packed[i] = uint8(v)
		total += v
		if packed[i] > packed[largest] {
			largest = i
		}
	}
	diff := 255 - total
	packed[largest] = uint8(int(packed[largest]) + diff)
	return packed
}

// packJoints pairs joint index bytes with packed weights, substituting the
// unused-slot sentinel wherever the quantized weight is zero.
func packJoints(joints [4]uint8, packed [4]uint8) [4]uint8 {
	var out [4]uint8
	for i := range joints {
		if packed[i] == 0 {
			out[i] = jointUnused
		} else {
			out[i] = joints[i]
		}
	}
	return out
}

// unpackWeights is the reader-side inverse: weight bytes scale back to
// floats summing to 1, sentinel slots clear to zero.
func unpackWeights(joints [4]uint8, packed [4]uint8) ([4]uint8, [4]float32) {
	var outJoints [4]uint8
	var outWeights [4]float32
	for i := range packed {
		if joints[i] == jointUnused || packed[i] == 0 {
			continue
		}
		outJoints[i] = joints[i]
		outWeights[i] = float32(packed[i]) / 255
	}
	return outJoints, outWeights
}
