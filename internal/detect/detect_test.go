package detect_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"phyboot/internal/detect"
	"phyboot/internal/domain"
)

func TestClassify_NonMatchingLinesAreNone(t *testing.T) {
	d, err := detect.FromStrings(detect.DefaultMarkers)
	require.NoError(t, err)

	for _, line := range []string{
		"",
		"   ",
		"U-Boot 2022.01 (Dec 01 2023 - 10:00:00 +0800)",
		"DRAM:  4 GiB",
		"phytium-pi#",
		"Phytium-Pi",
		"Hit any key to stop autoboot:  3",
	} {
		require.Equal(t, domain.MarkerNone, d.Classify(line), "line %q", line)
	}
}

func TestClassify_SubstringIgnoringSurroundingWhitespace(t *testing.T) {
	d, err := detect.FromStrings(detect.DefaultMarkers)
	require.NoError(t, err)

	for _, line := range []string{
		"Phytium-Pi#",
		"Phytium-Pi# ",
		"  Phytium-Pi#\t",
		"Unknown command 'x' - try 'help'Phytium-Pi# ",
	} {
		require.Equal(t, domain.MarkerReadyPrompt, d.Classify(line), "line %q", line)
	}
}

func TestClassify_MarkerSetIsConfigurable(t *testing.T) {
	d, err := detect.FromStrings([]string{detect.AutobootBanner, "=>"})
	require.NoError(t, err)

	require.Equal(t, domain.MarkerReadyPrompt, d.Classify("Hit any key to stop autoboot:  2 "))
	require.Equal(t, domain.MarkerReadyPrompt, d.Classify("=> "))
	require.Equal(t, domain.MarkerNone, d.Classify("Phytium-Pi#"))
}

func TestNew_RejectsInvalidRules(t *testing.T) {
	_, err := detect.New()
	require.Error(t, err)

	_, err = detect.FromStrings([]string{"  "})
	require.Error(t, err)

	_, err = detect.New(domain.Rule{Marker: domain.MarkerNone, Pattern: "x"})
	require.Error(t, err)
}

func TestClassify_TrimsPatterns(t *testing.T) {
	d, err := detect.FromStrings([]string{" Phytium-Pi# "})
	require.NoError(t, err)

	require.Equal(t, domain.MarkerReadyPrompt, d.Classify("Phytium-Pi#"))
	require.Equal(t, domain.MarkerNone, d.Classify("Phytium-Pi"))
}
