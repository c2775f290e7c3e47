package table

// Duplicated flags rows that repeat an earlier (keep=first) or later
// (keep=last) row on the subset columns. A nil subset compares all columns.
// Missing cells compare equal to each other.
func (t *Table) Duplicated(subset []string, keep Keep) ([]bool, error) {
	if err := keep.Validate(); err != nil {
		return nil, err
	}
	idx := make([]int, 0, len(t.columns))
	if subset == nil {
		for j := range t.columns {
			idx = append(idx, j)
		}
	} else {
		for _, c := range subset {
			j, ok := t.index[c]
			if !ok {
				return nil, &MissingColumnError{Column: c}
			}
			idx = append(idx, j)
		}
	}

	keys := make([]string, len(t.rows))
	var buf []byte
	for i, row := range t.rows {
		buf = buf[:0]
		for _, j := range idx {
			buf = row[j].appendKey(buf)
		}
		keys[i] = string(buf)
	}

	out := make([]bool, len(t.rows))
	seen := make(map[string]struct{}, len(keys))
	mark := func(i int) {
		if _, ok := seen[keys[i]]; ok {
			out[i] = true
			return
		}
		seen[keys[i]] = struct{}{}
	}
	if keep == KeepFirst {
		for i := range keys {
			mark(i)
		}
	} else {
		for i := len(keys) - 1; i >= 0; i-- {
			mark(i)
		}
	}
	return out, nil
}

// DropDuplicates returns a copy of t without rows identical on every column
// to an earlier row.
func (t *Table) DropDuplicates() *Table {
	dup, _ := t.Duplicated(nil, KeepFirst)
	return t.Filter(func(i int) bool { return !dup[i] })
}
