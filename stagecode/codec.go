// Package stagecode converts stage layouts to and from the compact text
// token stored for user stages.
//
// A layout is a list of records joined by ';'. Each record is
// "<mask>:<values>" where the values are the present properties of
// [gid, x, y, w, h, angIndex, color, tag] joined by ',' and the mask, written
// in MaskAlphabet, has bit i set when property i is present. Properties equal
// to their default (w=1, h=1, angIndex=0, color=0, tag="") are left out.
// Encode gzips that text and base64-encodes the result.
package stagecode

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
	"math/bits"
	"strconv"
	"strings"

	"github.com/milk9111/tilepush/common"
	"github.com/milk9111/tilepush/obj"
)

const (
	propGID = iota
	propX
	propY
	propW
	propH
	propAng
	propColor
	propTag
)

const requiredMask = 1<<propGID | 1<<propX | 1<<propY

const (
	recordSep = ";"
	fieldSep  = ","
	maskSep   = ":"
)

// Marshal renders descriptors as uncompressed record text.
func Marshal(descs []obj.Descriptor) string {
	records := make([]string, 0, len(descs))
	for _, d := range descs {
		records = append(records, marshalRecord(d))
	}
	return strings.Join(records, recordSep)
}

func marshalRecord(d obj.Descriptor) string {
	vals := make([]string, 0, common.PropsLen)
	mask := 0
	put := func(prop int, v string) {
		mask |= 1 << prop
		vals = append(vals, v)
	}

	put(propGID, strconv.Itoa(d.GID))
	put(propX, formatNumber(d.X))
	put(propY, formatNumber(d.Y))
	if d.W != 1 {
		put(propW, formatNumber(d.W))
	}
	if d.H != 1 {
		put(propH, formatNumber(d.H))
	}
	if i := d.Ang.Index(); i != 0 {
		put(propAng, strconv.Itoa(i))
	}
	if d.Color != 0 {
		put(propColor, strconv.Itoa(d.Color))
	}
	if d.Tag != "" {
		put(propTag, d.Tag)
	}
	return FormatBase(mask, MaskAlphabet) + maskSep + strings.Join(vals, fieldSep)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Unmarshal parses record text produced by Marshal. An empty string is an
// empty stage.
func Unmarshal(text string) ([]obj.Descriptor, error) {
	if text == "" {
		return nil, nil
	}
	records := strings.Split(text, recordSep)
	out := make([]obj.Descriptor, 0, len(records))
	for i, rec := range records {
		d, err := unmarshalRecord(i, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func unmarshalRecord(idx int, rec string) (obj.Descriptor, error) {
	maskText, valueText, ok := strings.Cut(rec, maskSep)
	if !ok {
		return obj.Descriptor{}, formatErr(idx, "missing mask separator", nil)
	}
	mask, err := ParseBase(maskText, MaskAlphabet)
	if err != nil {
		return obj.Descriptor{}, formatErr(idx, "invalid mask", err)
	}
	if mask >= 1<<common.PropsLen {
		return obj.Descriptor{}, formatErr(idx, fmt.Sprintf("mask %d out of range", mask), nil)
	}
	if mask&requiredMask != requiredMask {
		return obj.Descriptor{}, formatErr(idx, "gid, x and y are required", nil)
	}

	vals := strings.Split(valueText, fieldSep)
	if want := bits.OnesCount(uint(mask)); len(vals) != want {
		return obj.Descriptor{}, formatErr(idx, fmt.Sprintf("expected %d values, got %d", want, len(vals)), nil)
	}

	d := obj.Descriptor{W: 1, H: 1}
	next := 0
	for prop := 0; prop < common.PropsLen; prop++ {
		if mask&(1<<prop) == 0 {
			continue
		}
		v := vals[next]
		next++
		if err := setProp(&d, prop, v); err != nil {
			return obj.Descriptor{}, formatErr(idx, fmt.Sprintf("property %d", prop), err)
		}
	}
	return d, nil
}

func setProp(d *obj.Descriptor, prop int, v string) error {
	switch prop {
	case propGID:
		gid, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		if _, err := obj.KindOf(gid); err != nil {
			return err
		}
		d.GID = gid
	case propX, propY, propW, propH:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		if !common.Finite(f) {
			return fmt.Errorf("non-finite number %q", v)
		}
		switch prop {
		case propX:
			d.X = f
		case propY:
			d.Y = f
		case propW:
			d.W = f
		default:
			d.H = f
		}
	case propAng:
		i, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		ang, ok := common.AngleFromIndex(i)
		if !ok {
			return fmt.Errorf("angle index %d out of range", i)
		}
		d.Ang = ang
	case propColor:
		c, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		if !common.ValidColor(c) {
			return fmt.Errorf("colour %d out of range", c)
		}
		d.Color = c
	case propTag:
		d.Tag = v
	}
	return nil
}

// Encode returns the stored form of a layout: record text, gzipped, then
// base64-encoded. Descriptors that would not survive Decode are rejected.
func Encode(descs []obj.Descriptor) (string, error) {
	for i, d := range descs {
		if err := d.Validate(); err != nil {
			return "", fmt.Errorf("stagecode: record %d: %w", i, err)
		}
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := io.WriteString(zw, Marshal(descs)); err != nil {
		return "", fmt.Errorf("stagecode: compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("stagecode: compress: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode reverses Encode. Every failure is a *StageFormatError.
func Decode(code string) ([]obj.Descriptor, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(code))
	if err != nil {
		return nil, formatErr(-1, "base64", err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, formatErr(-1, "gzip", err)
	}
	defer zr.Close()
	text, err := io.ReadAll(zr)
	if err != nil {
		return nil, formatErr(-1, "gzip", err)
	}
	return Unmarshal(string(text))
}
