package depot

// Based on verrevcmp from GNU filevercmp.c,
// Copyright (C) 1995 Ian Jackson <iwj10@cus.cam.ac.uk>.

// compareVersions orders version strings the way GNU sort -V does: runs of
// digits compare numerically, other characters by weight, and '~' sorts
// before anything including the end of the string.
func compareVersions(a, b string) int {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		for (i < len(a) && !isDigit(a[i])) || (j < len(b) && !isDigit(b[j])) {
			if d := weight(at(a, i)) - weight(at(b, j)); d != 0 {
				return sign(d)
			}
			i++
			j++
		}

		for i < len(a) && a[i] == '0' {
			i++
		}
		for j < len(b) && b[j] == '0' {
			j++
		}

		first := 0
		for i < len(a) && j < len(b) && isDigit(a[i]) && isDigit(b[j]) {
			if first == 0 {
				first = int(a[i]) - int(b[j])
			}
			i++
			j++
		}
		if i < len(a) && isDigit(a[i]) {
			return 1
		}
		if j < len(b) && isDigit(b[j]) {
			return -1
		}
		if first != 0 {
			return sign(first)
		}
	}
	return 0
}

func at(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}

// weight: end and digits 0, '~' -1, letters their code, others code+256.
func weight(c byte) int {
	switch {
	case c == 0, isDigit(c):
		return 0
	case c == '~':
		return -1
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		return int(c)
	}
	return int(c) + 256
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
