package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Structural(t *testing.T) {
	tests := []struct {
		tag   Tag
		value any
		want  bool
	}{
		{TagInt, "-42", true},
		{TagInt, "42", true},
		{TagInt, 42, true},
		{TagInt, int64(-7), true},
		{TagInt, "4.2", false},
		{TagInt, "", false},
		{TagInt, "12a", false},
		{TagDecimal, "-0.5", true},
		{TagDecimal, ".5", true},
		{TagDecimal, "5.", true},
		{TagDecimal, "10", true},
		{TagDecimal, 2.5, true},
		{TagDecimal, decimal.RequireFromString("3.14"), true},
		{TagDecimal, "abc", false},
		{TagDecimal, "1.2.3", false},
		{TagDecimal, "-", false},
		{TagDecimal, (*decimal.Decimal)(nil), false},
		{TagDecimal, new(decimal.Decimal), true},
		{TagDate, (*time.Time)(nil), false},
		{TagDate, "2024-01-15T12:30:45", true},
		{TagDate, "2024-01-15T12:30:45.000Z", true},
		{TagDate, time.Date(2024, 1, 15, 12, 30, 45, 0, time.UTC), true},
		{TagDate, "2024-01-15", false},
		{TagDate, "15/01/2024 12:30:45", false},
		{TagBoolean, "true", true},
		{TagBoolean, "false", true},
		{TagBoolean, true, true},
		{TagBoolean, "True", false},
		{TagBoolean, "1", false},
		{TagString, "x", true},
		{TagString, "", false},
		{TagString9, "123456789", true},
		{TagString9, "1234567890", false},
		{TagString9, "", false},
		{TagUsername, "abcdefgh", true},
		{TagUsername, "abc123XYZ", true},
		{TagUsername, "abcdefg", false},
		{TagUsername, "abcdefgh_", false},
		{TagUsername, strings.Repeat("a", 21), false},
		{TagPassword, "p@ss w0rd", true},
		{TagPassword, "short", false},
		{TagPassword, strings.Repeat("x", 20), true},
		{TagPassword, strings.Repeat("x", 21), false},
		{TagCardDate, "0127", true},
		{TagCardDate, "127", false},
		{TagCV2, "123", true},
		{TagCV2, "12a", false},
		{TagCV2, "1234", false},
		{TagExchangeID, 1, true},
		{TagExchangeID, "2", true},
		{TagExchangeID, "3", false},
		{TagArrayInt, []int64{1, 2, 3}, true},
		{TagArrayInt, []string{"1", "-2"}, true},
		{TagArrayInt, []any{1, "2"}, true},
		{TagArrayInt, []string{"1", "x"}, false},
		{TagArrayInt, []int{}, false},
		{TagArrayInt, "1", false},
	}

	for _, tt := range tests {
		name := string(tt.tag)
		if s, ok := Text(tt.value); ok {
			name += "/" + s
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.tag, tt.value))
		})
	}
}

func TestCheck_UnknownTagAndNil(t *testing.T) {
	assert.False(t, Check(Tag("noSuchType"), "anything"))
	assert.False(t, Check(TagString, nil))
	assert.False(t, Check(TagBetTypeEnum, nil))
	assert.False(t, Check(TagRecords, []Args{{}}))
	assert.False(t, Tag("noSuchType").Known())
	assert.True(t, TagInt.Known())
	assert.True(t, TagBetTypeEnum.Known())
}

func TestCheck_EnumMembers(t *testing.T) {
	tags := EnumTags()
	require.NotEmpty(t, tags)

	for _, tag := range tags {
		members := Members(tag)
		require.GreaterOrEqual(t, len(members), 2, "enum %s", tag)

		for _, m := range members {
			assert.True(t, Check(tag, m), "%s should accept %q", tag, m)
			if lower := strings.ToLower(m); lower != m {
				assert.False(t, Check(tag, lower), "%s should reject %q", tag, lower)
			}
			if upper := strings.ToUpper(m); upper != m {
				assert.False(t, Check(tag, upper), "%s should reject %q", tag, upper)
			}
		}
		assert.False(t, Check(tag, "NOT_A_MEMBER"), "enum %s", tag)
		assert.False(t, Check(tag, ""), "enum %s", tag)
	}
}

func TestCheck_EnumIsLiteral(t *testing.T) {
	// Values that would match as regular expressions must not.
	for _, v := range []string{".", "B|L", "^B$", "[BL]", ".*", "B.*"} {
		assert.False(t, Check(TagBetTypeEnum, v), "value %q", v)
	}
	assert.True(t, Check(TagBetTypeEnum, "B"))
	assert.True(t, Check(TagTitleEnum, "Mrs"))
	assert.False(t, Check(TagTitleEnum, "MRS"))
}

func TestCheck_Idempotent(t *testing.T) {
	for _, tag := range append(EnumTags(), TagInt, TagDecimal, TagDate) {
		for _, v := range []string{"B", "-42", "2024-01-15T12:30:45", "garbage"} {
			assert.Equal(t, Check(tag, v), Check(tag, v))
		}
	}
}

func TestMembers(t *testing.T) {
	assert.Equal(t, []string{"B", "L"}, Members(TagBetTypeEnum))
	assert.Nil(t, Members(TagInt))
	assert.Len(t, Members(TagServiceEnum), 56)
}

func TestText(t *testing.T) {
	tests := []struct {
		value  any
		want   string
		wantOK bool
	}{
		{"abc", "abc", true},
		{12, "12", true},
		{int64(-3), "-3", true},
		{uint(7), "7", true},
		{2.5, "2.5", true},
		{false, "false", true},
		{decimal.RequireFromString("1.10"), "1.1", true},
		{time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02T03:04:05Z", true},
		{nil, "", false},
		{[]int{1}, "", false},
		{map[string]any{}, "", false},
	}

	for _, tt := range tests {
		got, ok := Text(tt.value)
		assert.Equal(t, tt.wantOK, ok, "Text(%#v)", tt.value)
		assert.Equal(t, tt.want, got, "Text(%#v)", tt.value)
	}
}
