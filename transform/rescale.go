package transform

import (
	"log/slog"
	"strings"

	"github.com/ardnew/madseq/lang"
)

var one = lang.NewInt(1)

func keyError(elem *lang.Element, key string) error {
	return lang.ErrKeyNotFound.With(
		slog.String("key", key),
		slog.String("element", elem.Name),
		slog.String("type", elem.Type),
	)
}

// RescaleThick shrinks an element to the given length ratio while keeping its
// type. Bending magnets have their bend angle scaled along with the length.
// A ratio of 1 returns the element unchanged.
func RescaleThick(elem *lang.Element, ratio *lang.Value) (*lang.Element, error) {
	if ratio.Equal(one) {
		return elem, nil
	}

	scaled := elem.Copy()

	length, ok := scaled.Get("L")
	if !ok {
		return nil, keyError(scaled, "L")
	}

	scaled.Set("L", lang.Mul(length, ratio))

	if strings.EqualFold(scaled.BaseType(), "sbend") {
		angle, ok := scaled.Get("angle")
		if !ok {
			return nil, keyError(scaled, "angle")
		}

		scaled.Set("angle", lang.Mul(angle, ratio))
	}

	return scaled, nil
}

// RescaleMakethin converts a thick element to its thin approximation at the
// given length ratio. Bending magnets and quadrupoles become multipole kicks
// with the integrated strength scaled by the ratio; solenoids keep their type
// but move their length into the lrad fringe field parameter. Every other
// type passes through unchanged.
//
// The conversion handles only a few parameters of a few element types, so
// thin slices must be kept short for the approximation to hold.
func RescaleMakethin(elem *lang.Element, ratio *lang.Value) (*lang.Element, error) {
	base := strings.ToLower(elem.BaseType())

	switch base {
	case "solenoid":
		return makethinSolenoid(elem, ratio)
	case "sbend", "quadrupole":
		return makethinMultipole(elem, base, ratio)
	}

	return elem, nil
}

func makethinSolenoid(elem *lang.Element, ratio *lang.Value) (*lang.Element, error) {
	scaled := elem.Copy()

	ks, ok := scaled.Get("KS")
	if !ok {
		return nil, keyError(scaled, "KS")
	}

	length, ok := scaled.Get("L")
	if !ok {
		return nil, keyError(scaled, "L")
	}

	scaled.Set("ksi", lang.Mul(lang.Mul(ks, length), ratio))
	scaled.Set("lrad", lang.Mul(length, ratio))
	scaled.Set("L", lang.NewInt(0))

	return scaled, nil
}

func makethinMultipole(
	elem *lang.Element,
	base string,
	ratio *lang.Value,
) (*lang.Element, error) {
	// Flatten the prototype chain so the multipole stands alone.
	flat := lang.NewElement(elem.Name, "multipole", elem.AllArgs(), nil)

	switch base {
	case "sbend":
		angle, err := flat.Pop("angle")
		if err != nil {
			return nil, err
		}

		flat.Set("KNL", lang.NewArray(lang.Mul(angle, ratio)))
		flat.Delete("HGAP")

	case "quadrupole":
		if k1, ok := flat.Get("K1"); ok {
			length, ok := flat.Get("L")
			if !ok {
				return nil, keyError(flat, "L")
			}

			flat.Set("KNL", lang.NewArray(
				lang.NewInt(0),
				lang.Mul(lang.Mul(k1, length), ratio),
			))
			flat.Delete("K1")
		}

		if k1s, ok := flat.Get("K1S"); ok {
			length, ok := flat.Get("L")
			if !ok {
				return nil, keyError(flat, "L")
			}

			flat.Set("KSL", lang.NewArray(
				lang.NewInt(0),
				lang.Mul(lang.Mul(k1s, length), ratio),
			))
			flat.Delete("K1S")
		}
	}

	if length, ok := flat.Get("L"); ok {
		flat.Delete("L")
		flat.Set("lrad", lang.Mul(length, ratio))
	}

	return flat, nil
}
