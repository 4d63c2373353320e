package xlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// archiveFile moves the file at path to its archive location according to
// policy. stamp is the time the archived content belongs to. Missing or
// empty files are left alone.
func archiveFile(path string, policy *ArchivalPolicy, stamp, now time.Time) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Size() == 0 {
		return nil
	}

	pattern := parseArchivePattern(policy.ArchiveFileName)
	if err = os.MkdirAll(filepath.Dir(pattern.prefix+"x"), os.ModePerm); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}

	switch policy.Numbering {
	case NumberingRolling:
		return archiveRolling(path, pattern, policy.MaxArchiveFiles)
	case NumberingDate:
		if err = archiveDated(path, pattern, policy.DateFormat, stamp); err != nil {
			return err
		}
		return pruneByAge(pattern, policy.MaxArchiveDays, now)
	default:
		return archiveSequence(path, pattern, policy.MaxArchiveFiles)
	}
}

func formatIndex(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}

// archiveIndexes lists the numbered archives matching pattern, keyed by index.
func archiveIndexes(pattern archivePattern) (map[int]string, error) {
	dir := filepath.Dir(pattern.prefix + "x")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[int]string{}, nil
		}
		return nil, err
	}
	base := filepath.Base(pattern.prefix + "x")
	base = base[:len(base)-1]
	out := map[int]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || len(name) <= len(base)+len(pattern.postfix) {
			continue
		}
		if !strings.HasPrefix(name, base) || !strings.HasSuffix(name, pattern.postfix) {
			continue
		}
		middle := name[len(base) : len(name)-len(pattern.postfix)]
		n, err := strconv.Atoi(middle)
		if err != nil || n < 0 {
			continue
		}
		out[n] = filepath.Join(dir, name)
	}
	return out, nil
}

// archiveRolling makes path archive 0, shifting older archives up by one
// and dropping those beyond maxFiles.
func archiveRolling(path string, pattern archivePattern, maxFiles int) error {
	existing, err := archiveIndexes(pattern)
	if err != nil {
		return err
	}
	indexes := make([]int, 0, len(existing))
	for n := range existing {
		indexes = append(indexes, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(indexes)))

	for _, n := range indexes {
		if maxFiles > 0 && n+1 >= maxFiles {
			if err = os.Remove(existing[n]); err != nil && !os.IsNotExist(err) {
				return err
			}
			continue
		}
		if err = os.Rename(existing[n], pattern.with(formatIndex(n+1, pattern.width))); err != nil {
			return err
		}
	}
	return os.Rename(path, pattern.with(formatIndex(0, pattern.width)))
}

// archiveSequence gives path the next free index and removes the lowest
// indexes while more than maxFiles archives remain.
func archiveSequence(path string, pattern archivePattern, maxFiles int) error {
	existing, err := archiveIndexes(pattern)
	if err != nil {
		return err
	}
	next := 0
	for n := range existing {
		if n >= next {
			next = n + 1
		}
	}
	target := pattern.with(formatIndex(next, pattern.width))
	if err = os.Rename(path, target); err != nil {
		return err
	}
	existing[next] = target

	if maxFiles <= 0 || len(existing) <= maxFiles {
		return nil
	}
	indexes := make([]int, 0, len(existing))
	for n := range existing {
		indexes = append(indexes, n)
	}
	sort.Ints(indexes)
	for _, n := range indexes[:len(indexes)-maxFiles] {
		if err = os.Remove(existing[n]); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// archiveDated names the archive after stamp. A second archive for the same
// date gets a numeric suffix.
func archiveDated(path string, pattern archivePattern, format string, stamp time.Time) error {
	date := formatDate(format, stamp)
	target := pattern.with(date)
	for i := 1; ; i++ {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			break
		}
		target = pattern.with(date + "." + strconv.Itoa(i))
	}
	return os.Rename(path, target)
}

// pruneByAge removes dated archives last modified more than maxDays ago.
func pruneByAge(pattern archivePattern, maxDays int, now time.Time) error {
	if maxDays <= 0 {
		return nil
	}
	dir := filepath.Dir(pattern.prefix + "x")
	base := filepath.Base(pattern.prefix + "x")
	base = base[:len(base)-1]
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	cutoff := now.AddDate(0, 0, -maxDays)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || len(name) <= len(base)+len(pattern.postfix) {
			continue
		}
		if !strings.HasPrefix(name, base) || !strings.HasSuffix(name, pattern.postfix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err = os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
	}
	return nil
}
