package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConvert(t *testing.T) {
	out, err := run(t, "convert", "2004-04-06T07:51:28.386", "--dut1", "-0.4399619")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	for _, want := range []string{
		"2004-04-06T07:51:28.386Z",
		"2004-04-06T07:52:00.386 TAI",
		"2004-04-06T07:52:32.570 TT",
		"2004-04-06T07:51:27.946 UT1",
		"TAI-UTC",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConvertRejectsBadInput(t *testing.T) {
	if _, err := run(t, "convert", "2004-13-01"); err == nil {
		t.Error("expected error for month 13")
	}
	if _, err := run(t, "convert"); err == nil {
		t.Error("expected error without an argument")
	}
}

func TestOrientWithExplicitParams(t *testing.T) {
	t.Setenv("STARDOME_EOP_CACHE_DIR", t.TempDir())

	out, err := run(t, "orient", "2004-04-06T07:51:28.386",
		"--xp", "-0.140682", "--yp", "0.333309", "--dut1", "-0.4399619")
	if err != nil {
		t.Fatalf("orient: %v", err)
	}

	var resp struct {
		ParamsSource string        `json:"params_source"`
		GCRSToITRS   [3][3]float64 `json:"gcrs_to_itrs"`
		EarthModel   [16]float64   `json:"earth_model"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	if resp.ParamsSource != "flags" {
		t.Errorf("params_source = %q, want flags", resp.ParamsSource)
	}
	if resp.EarthModel[15] != 1 {
		t.Errorf("earth_model[15] = %v, want 1", resp.EarthModel[15])
	}
}

func TestOrientWithoutEOPData(t *testing.T) {
	t.Setenv("STARDOME_EOP_CACHE_DIR", t.TempDir())

	_, err := run(t, "orient", "2004-04-06T07:51:28.386")
	if err == nil || !strings.Contains(err.Error(), "--dut1") {
		t.Errorf("error = %v, want a hint about explicit parameters", err)
	}
}

func TestUnknownLogFormat(t *testing.T) {
	_, err := run(t, "--log-format", "xml", "orient", "--xp", "0", "--yp", "0", "--dut1", "0")
	if err == nil {
		t.Error("expected error for unknown log format")
	}
}

func TestTEME(t *testing.T) {
	t.Setenv("STARDOME_EOP_CACHE_DIR", t.TempDir())

	out, err := run(t, "teme", "2004-04-06T07:51:28.386",
		"--xp", "-0.140682", "--yp", "0.333309", "--dut1", "-0.4399619",
		"--r", "5094.18016210,6127.64465950,6380.34453270",
		"--v", "-4.746131487,0.785818041,5.531931288")
	if err != nil {
		t.Fatalf("teme: %v", err)
	}
	if !strings.Contains(out, "r_itrs   -1033.4") || !strings.Contains(out, "7901.29") {
		t.Errorf("unexpected position:\n%s", out)
	}
	if !strings.Contains(out, "v_itrs") || strings.Contains(out, "warning") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := run(t, "teme", "--xp", "0", "--yp", "0", "--dut1", "0", "--r", "1,2"); err == nil {
		t.Error("expected error for a two-component position")
	}
}
