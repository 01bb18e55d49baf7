package payload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := []Payload{
		{Catalog: "inAppPurchases", ProductID: "pack1", UserID: "123456789"},
		{Catalog: "stickerPacks", ProductID: "cats-v2", UserID: "42"},
		{Catalog: "x", ProductID: "y", UserID: "z"},
		{Catalog: "inAppPurchases", ProductID: "ünïcødé", UserID: "uid with spaces"},
	}

	for _, want := range cases {
		s, err := Encode(want)
		require.NoError(t, err)

		got, err := Decode(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestEncodeFormat(t *testing.T) {
	s, err := Encode(Payload{Catalog: "inAppPurchases", ProductID: "pack1", UserID: "99"})
	require.NoError(t, err)
	assert.Equal(t, "inAppPurchases|pack1|99", s)
}

func TestEncodeRejectsUnsafeFields(t *testing.T) {
	cases := map[string]Payload{
		"empty catalog":   {ProductID: "p", UserID: "u"},
		"empty product":   {Catalog: "c", UserID: "u"},
		"empty user":      {Catalog: "c", ProductID: "p"},
		"pipe in product": {Catalog: "c", ProductID: "a|b", UserID: "u"},
		"pipe in user":    {Catalog: "c", ProductID: "p", UserID: "|"},
		"too long":        {Catalog: "c", ProductID: strings.Repeat("p", MaxLength), UserID: "u"},
	}

	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Encode(p)
			assert.ErrorIs(t, err, ErrInvalidField)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, s := range []string{"", "a|b", "a|b|c|d", "|b|c", "a||c", "a|b|"} {
		_, err := Decode(s)
		assert.ErrorIs(t, err, ErrMalformed, "payload %q", s)
	}
}
