package stagecode

import (
	"encoding/base64"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/tilepush/common"
	"github.com/milk9111/tilepush/obj"
)

func TestBase(t *testing.T) {
	cases := []struct {
		n        int
		alphabet string
		want     string
	}{
		{0, MaskAlphabet, "0"},
		{7, MaskAlphabet, "7"},
		{63, MaskAlphabet, "_"},
		{64, MaskAlphabet, "10"},
		{183, MaskAlphabet, "2T"},
		{255, MaskAlphabet, "3_"},
		{0, TagAlphabet, "A"},
		{25, TagAlphabet, "Z"},
		{26, TagAlphabet, "BA"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			assert.Equal(t, c.want, FormatBase(c.n, c.alphabet))
			n, err := ParseBase(c.want, c.alphabet)
			require.NoError(t, err)
			assert.Equal(t, c.n, n)
		})
	}

	_, err := ParseBase("7!", MaskAlphabet)
	require.ErrorIs(t, err, ErrInvalidDigit)
}

func TestMarshalExact(t *testing.T) {
	cases := []struct {
		name  string
		descs []obj.Descriptor
		want  string
	}{
		{
			name:  "defaults_omitted",
			descs: []obj.Descriptor{{GID: 2, X: 3, Y: 4, W: 1, H: 1}},
			want:  "7:2,3,4",
		},
		{
			name: "portal_with_tag",
			descs: []obj.Descriptor{
				{GID: 7, X: 1.5, Y: 2, W: 1, H: 2, Ang: common.Angle180, Tag: "B"},
			},
			want: "2T:7,1.5,2,2,2,B",
		},
		{
			name: "every_property",
			descs: []obj.Descriptor{
				{GID: 7, X: 0, Y: 15, W: 0.5, H: 2, Ang: common.AngleNeg90, Color: 8, Tag: "Z"},
			},
			want: "3_:7,0,15,0.5,2,3,8,Z",
		},
		{
			name: "two_records",
			descs: []obj.Descriptor{
				{GID: 1, X: 0, Y: 0, W: 1, H: 1},
				{GID: 6, X: 2, Y: 3, W: 1, H: 0.25, Ang: common.Angle90, Color: 4},
			},
			want: "7:1,0,0;1T:6,2,3,0.25,1,4",
		},
		{
			name:  "empty",
			descs: nil,
			want:  "",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Marshal(c.descs)
			assert.Equal(t, c.want, got)

			back, err := Unmarshal(got)
			require.NoError(t, err)
			assert.Equal(t, len(c.descs), len(back))
			for i := range c.descs {
				assert.Equal(t, c.descs[i], back[i])
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	descs := []obj.Descriptor{
		{GID: obj.GIDPlayer, X: 0, Y: 14, W: 1, H: 1},
		{GID: obj.GIDBlock, X: 0, Y: 15, W: 16, H: 1},
		{GID: obj.GIDBlockOff, X: 4, Y: 12, W: 1, H: 3, Color: 1},
		{GID: obj.GIDKey, X: 2, Y: 14, W: 1, H: 1, Color: 1},
		{GID: obj.GIDPortal, X: 6, Y: 14, W: 1, H: 1, Ang: common.AngleNeg90, Tag: "A"},
		{GID: obj.GIDPortal, X: 9, Y: 2, W: 1, H: 1, Ang: common.Angle90, Tag: "A"},
		{GID: obj.GIDMoveBlockOn, X: 10.25, Y: 7.125, W: 2, H: 1, Ang: common.Angle180, Color: 6},
	}
	code, err := Encode(descs)
	require.NoError(t, err)
	_, err = base64.StdEncoding.DecodeString(code)
	require.NoError(t, err)

	back, err := Decode(code)
	require.NoError(t, err)
	assert.Equal(t, descs, back)
}

// layout generates stages of valid descriptors for quick.Check.
type layout []obj.Descriptor

func (layout) Generate(r *rand.Rand, size int) reflect.Value {
	descs := make(layout, 1+r.Intn(size+1))
	for i := range descs {
		gid := obj.GIDPlayer + r.Intn(obj.GIDMoveBlockOn)
		ang, _ := common.AngleFromIndex(r.Intn(len(common.Angles)))
		d := obj.Descriptor{
			GID:   gid,
			X:     r.NormFloat64() * 64,
			Y:     r.NormFloat64() * 64,
			W:     1,
			H:     1,
			Ang:   ang,
			Color: r.Intn(common.PaletteSize),
		}
		if r.Intn(2) == 0 {
			d.W = 0.25 + r.Float64()*16
			d.H = 0.25 + r.Float64()*16
		}
		if gid == obj.GIDPortal {
			d.Tag = FormatBase(r.Intn(2*len(TagAlphabet)), TagAlphabet)
		}
		descs[i] = d
	}
	return reflect.ValueOf(descs)
}

func TestEncodeRoundTripGenerated(t *testing.T) {
	roundTrip := func(l layout) bool {
		code, err := Encode(l)
		if err != nil {
			t.Log(err)
			return false
		}
		back, err := Decode(code)
		if err != nil {
			t.Log(err)
			return false
		}
		return reflect.DeepEqual([]obj.Descriptor(l), back)
	}
	require.NoError(t, quick.Check(roundTrip, &quick.Config{MaxCount: 300}))
}

func TestEncodeRejectsInvalid(t *testing.T) {
	portal := obj.Descriptor{GID: obj.GIDPortal, X: 6, Y: 14, W: 1, H: 1, Tag: "A"}
	cases := []struct {
		name string
		desc obj.Descriptor
		want error
	}{
		{"comma_tag", withTag(portal, "A,B"), obj.ErrTagSeparator},
		{"semicolon_tag", withTag(portal, "A;7:2,3,4"), obj.ErrTagSeparator},
		{"zero_gid", obj.Descriptor{GID: 0, X: 2, Y: 3, W: 1, H: 1}, obj.ErrUnknownGID},
		{"colour_range", obj.Descriptor{GID: obj.GIDKey, X: 2, Y: 3, W: 1, H: 1, Color: 9}, obj.ErrColorRange},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, err := Encode([]obj.Descriptor{portal, c.desc})
			require.ErrorIs(t, err, c.want)
			assert.Contains(t, err.Error(), "record 1")
			assert.Empty(t, code)
		})
	}
}

func withTag(d obj.Descriptor, tag string) obj.Descriptor {
	d.Tag = tag
	return d
}

func TestDecodeEmptyStage(t *testing.T) {
	code, err := Encode(nil)
	require.NoError(t, err)
	back, err := Decode(code)
	require.NoError(t, err)
	assert.Empty(t, back)
}

func TestUnmarshalErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"unknown_gid", "7:13,0,0"},
		{"zero_gid", "7:0,0,0"},
		{"bad_mask_char", "!:2,3,4"},
		{"mask_too_large", "40:2,3,4"},
		{"missing_gid", "6:3,4"},
		{"missing_separator", "2,3,4"},
		{"too_few_values", "f:2,3,4"},
		{"too_many_values", "7:2,3,4,5"},
		{"bad_number", "7:2,x,4"},
		{"non_finite", "7:2,NaN,4"},
		{"angle_index", "D:2,3,4,4"},
		{"colour_range", "17:2,3,4,9"},
		{"second_record_bad", "7:2,3,4;7:99,0,0"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			descs, err := Unmarshal(c.text)
			var fe *StageFormatError
			require.ErrorAs(t, err, &fe)
			assert.Nil(t, descs)
		})
	}

	_, err := Unmarshal("7:99,0,0")
	require.ErrorIs(t, err, obj.ErrUnknownGID)
	_, err = Unmarshal("!:2,3,4")
	require.ErrorIs(t, err, ErrInvalidDigit)
}

func TestDecodeWrappingErrors(t *testing.T) {
	cases := []struct {
		name string
		code string
	}{
		{"not_base64", "%%%"},
		{"not_gzip", base64.StdEncoding.EncodeToString([]byte("7:2,3,4"))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Decode(c.code)
			var fe *StageFormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, -1, fe.Record)
		})
	}
}
