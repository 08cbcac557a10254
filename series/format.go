// File: format.go
// Role: Line-oriented text encodings of the series files.
//
//   *.values    "<name>\t<value>"
//   *.runtimes  "<name>\t<nanoseconds>"
//   *.distr     "<bin>\t<count>"            (empty bins omitted)
//   *.nvl       "<node>\t<value>"
//   *.nnvl      "<node1>\t<node2>\t<value>"
//
// Blank lines are ignored. Decoding errors name the file and the line.

package series

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// File suffixes and reserved names inside a batch.
const (
	ValuesSuffix   = ".values"
	RuntimesSuffix = ".runtimes"
	DistSuffix     = ".distr"
	NVLSuffix      = ".nvl"
	NNVLSuffix     = ".nnvl"

	StatsFile           = "_stats" + ValuesSuffix
	GeneralRuntimesFile = "_general_runtimes" + RuntimesSuffix
	MetricRuntimesFile  = "_metric_runtimes" + RuntimesSuffix
	MetricValuesFile    = "_values" + ValuesSuffix
)

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func encodeValues(vs []Value) []byte {
	var buf bytes.Buffer
	for _, v := range vs {
		buf.WriteString(v.Name)
		buf.WriteByte('\t')
		buf.WriteString(formatFloat(v.Value))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func encodeRuntimes(rs []RunTime) []byte {
	var buf bytes.Buffer
	for _, r := range rs {
		buf.WriteString(r.Name)
		buf.WriteByte('\t')
		buf.WriteString(strconv.FormatInt(int64(r.Duration), 10))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func encodeDistribution(d *Distribution) []byte {
	var buf bytes.Buffer
	for bin, c := range d.Bins {
		if c == 0 {
			continue
		}
		fmt.Fprintf(&buf, "%d\t%d\n", bin, c)
	}
	return buf.Bytes()
}

func encodeNodeValueList(l *NodeValueList) []byte {
	var buf bytes.Buffer
	for _, n := range l.Nodes() {
		v, _ := l.Get(n)
		fmt.Fprintf(&buf, "%d\t%s\n", n, formatFloat(v))
	}
	return buf.Bytes()
}

func encodeNodeNodeValueList(l *NodeNodeValueList) []byte {
	var buf bytes.Buffer
	for _, p := range l.Pairs() {
		v, _ := l.Get(p.N1, p.N2)
		fmt.Fprintf(&buf, "%d\t%d\t%s\n", p.N1, p.N2, formatFloat(v))
	}
	return buf.Bytes()
}

// eachLine calls fn with the tab-separated fields of every non-blank line.
func eachLine(file string, data []byte, want int, fn func(fields []string) error) error {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != want {
			return fmt.Errorf("%w: %s:%d: %d fields, want %d", ErrMalformed, file, line, len(fields), want)
		}
		if err := fn(fields); err != nil {
			return fmt.Errorf("%w: %s:%d: %v", ErrMalformed, file, line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	return nil
}

func decodeValues(file string, data []byte) ([]Value, error) {
	var out []Value
	err := eachLine(file, data, 2, func(f []string) error {
		v, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			return fmt.Errorf("value %q", f[1])
		}
		out = append(out, Value{Name: f[0], Value: v})
		return nil
	})
	return out, err
}

func decodeRuntimes(file string, data []byte) ([]RunTime, error) {
	var out []RunTime
	err := eachLine(file, data, 2, func(f []string) error {
		ns, err := strconv.ParseInt(f[1], 10, 64)
		if err != nil {
			return fmt.Errorf("runtime %q", f[1])
		}
		out = append(out, RunTime{Name: f[0], Duration: time.Duration(ns)})
		return nil
	})
	return out, err
}

func decodeDistribution(name, file string, data []byte) (*Distribution, error) {
	d := NewDistribution(name)
	err := eachLine(file, data, 2, func(f []string) error {
		bin, err := strconv.Atoi(f[0])
		if err != nil || bin < 0 {
			return fmt.Errorf("bin %q", f[0])
		}
		c, err := strconv.ParseInt(f[1], 10, 64)
		if err != nil || c < 0 {
			return fmt.Errorf("count %q", f[1])
		}
		d.Add(bin, c)
		return nil
	})
	return d, err
}

func decodeNodeValueList(name, file string, data []byte) (*NodeValueList, error) {
	l := NewNodeValueList(name)
	err := eachLine(file, data, 2, func(f []string) error {
		n, err := strconv.Atoi(f[0])
		if err != nil || n < 0 {
			return fmt.Errorf("node %q", f[0])
		}
		v, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			return fmt.Errorf("value %q", f[1])
		}
		l.Set(n, v)
		return nil
	})
	return l, err
}

func decodeNodeNodeValueList(name, file string, data []byte) (*NodeNodeValueList, error) {
	l := NewNodeNodeValueList(name)
	err := eachLine(file, data, 3, func(f []string) error {
		n1, err := strconv.Atoi(f[0])
		if err != nil || n1 < 0 {
			return fmt.Errorf("node %q", f[0])
		}
		n2, err := strconv.Atoi(f[1])
		if err != nil || n2 < 0 {
			return fmt.Errorf("node %q", f[1])
		}
		v, err := strconv.ParseFloat(f[2], 64)
		if err != nil {
			return fmt.Errorf("value %q", f[2])
		}
		l.Set(n1, n2, v)
		return nil
	})
	return l, err
}
