package businessflow

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPRCode(t *testing.T) {
	t.Run("KnownCombinations", func(t *testing.T) {
		cases := []struct {
			location   string
			department string
			seq        int64
			expected   string
		}{
			{"Raqqa", "Health", 7, "RAQ-HEA-0007"},
			{"Raqqa", "Health", 10342, "RAQ-HEA-10342"},
			{"Hassaka", "Education", 1, "HSK-EDU-0001"},
			{"Deir Ezole", "WASH", 9999, "DRZ-WSH-9999"},
			{"Deir Ezole", "Health", 10000, "DRZ-HEA-10000"},
		}

		for _, tc := range cases {
			code, err := FormatPRCode(tc.location, tc.department, tc.seq)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, code)
		}
	})

	t.Run("CodeShape", func(t *testing.T) {
		pattern := regexp.MustCompile(`^[A-Z]{3}-[A-Z]{3}-\d{4,}$`)

		for _, seq := range []int64{1, 42, 999, 1000, 12345} {
			code, err := FormatPRCode("Hassaka", "WASH", seq)
			require.NoError(t, err)
			assert.Regexp(t, pattern, code)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		first, err := FormatPRCode("Raqqa", "Education", 55)
		require.NoError(t, err)

		second, err := FormatPRCode("Raqqa", "Education", 55)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("UnknownLocation", func(t *testing.T) {
		_, err := FormatPRCode("Atlantis", "Health", 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownLocation)
	})

	t.Run("UnknownDepartment", func(t *testing.T) {
		_, err := FormatPRCode("Raqqa", "Alchemy", 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownDepartment)
	})

	t.Run("CaseSensitiveLookups", func(t *testing.T) {
		_, err := FormatPRCode("raqqa", "Health", 1)
		assert.ErrorIs(t, err, ErrUnknownLocation)

		_, err = FormatPRCode("Raqqa", "health", 1)
		assert.ErrorIs(t, err, ErrUnknownDepartment)
	})
}

func TestValidatePRCodes(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, ValidatePRCodes("Raqqa", "Health"))
		assert.NoError(t, ValidatePRCodes("Hassaka", "Education"))
		assert.NoError(t, ValidatePRCodes("Deir Ezole", "WASH"))
	})

	t.Run("UnknownLocation", func(t *testing.T) {
		err := ValidatePRCodes("Nowhere", "Health")
		assert.ErrorIs(t, err, ErrUnknownLocation)
	})

	t.Run("UnknownDepartment", func(t *testing.T) {
		err := ValidatePRCodes("Raqqa", "Nothing")
		assert.ErrorIs(t, err, ErrUnknownDepartment)
	})

	t.Run("LocationCheckedFirst", func(t *testing.T) {
		err := ValidatePRCodes("Nowhere", "Nothing")
		assert.ErrorIs(t, err, ErrUnknownLocation)
	})
}
