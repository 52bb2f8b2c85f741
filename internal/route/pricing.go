package route

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fare model in local currency, converted to the display currency by
// currencyDivisor.
const (
	baseFare        = 300.0
	perKmCost       = 50.0
	currencyDivisor = 500.0

	CarCO2PerKm     = 0.12
	TransitCO2PerKm = 0.04
)

// Cost is zero for itineraries without transit.
func Cost(distanceMeters float64, transitUsed bool) float64 {
	if !transitUsed {
		return 0
	}
	km := distanceMeters / 1000
	return (baseFare + km*perKmCost) / currencyDivisor
}

// CO2Saved is measured against driving the same distance.
func CO2Saved(distanceMeters float64, transitUsed bool) float64 {
	km := distanceMeters / 1000
	if transitUsed {
		return (CarCO2PerKm - TransitCO2PerKm) * km
	}
	return CarCO2PerKm * km
}

func FormatCost(v float64) string    { return fmt.Sprintf("$%.2f", v) }
func FormatCO2(kg float64) string    { return fmt.Sprintf("%.1f kg", kg) }
func FormatKm(meters float64) string { return fmt.Sprintf("%.1f km", meters/1000) }
func FormatMeters(m int) string      { return fmt.Sprintf("%d m", m) }
func FormatMinutes(m int) string     { return fmt.Sprintf("%d min", m) }

// ParseCost reads a display cost such as "$1.25".
func ParseCost(s string) (float64, error) {
	return parseNumber(s, "$", "")
}

// ParseCO2 reads a display CO2 figure such as "0.4 kg".
func ParseCO2(s string) (float64, error) {
	return parseNumber(s, "", "kg")
}

// ParseKm reads a display distance ("3.2 km" or "850 m") as kilometres.
func ParseKm(s string) (float64, error) {
	t := strings.TrimSpace(strings.ToLower(s))
	if strings.HasSuffix(t, "km") {
		return parseNumber(t, "", "km")
	}
	if strings.HasSuffix(t, "m") {
		m, err := parseNumber(t, "", "m")
		if err != nil {
			return 0, err
		}
		return m / 1000, nil
	}
	return parseNumber(t, "", "")
}

func parseNumber(s, prefix, suffix string) (float64, error) {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(t, prefix)
	t = strings.TrimSpace(strings.TrimSuffix(t, suffix))
	t = strings.ReplaceAll(t, ",", "")
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parse %q: not a finite number", s)
	}
	return v, nil
}
