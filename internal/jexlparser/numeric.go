package jexlparser

import "strconv"

func parseInt64(lit string) (int64, error) {
	return strconv.ParseInt(lit, 10, 64)
}

func parseFloat64(lit string) (float64, error) {
	return strconv.ParseFloat(lit, 64)
}
