package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-admission/pkg/admission"
)

func sampleOptions() options {
	return options{
		groupPath:    "../../data/groups/sample.yaml",
		price:        1000,
		date:         "2023-02-01",
		rulesDir:     "../../rules",
		rulesVersion: "v1",
	}
}

func TestRunSampleGroupJSON(t *testing.T) {
	opts := sampleOptions()
	opts.asJSON = true

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, opts))

	var res admission.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	require.Len(t, res.Records, 4)

	prices := make([]admission.Price, 0, len(res.Records))
	for _, r := range res.Records {
		prices = append(prices, r.Price)
	}
	assert.Equal(t, []admission.Price{700, 700, 700, 500}, prices)
	assert.Equal(t, admission.Price(2600), res.Total())
	assert.Equal(t, 10, res.Records[2].Stamp)
}

func TestRunSampleGroupSummary(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, sampleOptions()))
	assert.Contains(t, out.String(), "Total:    2600")
	assert.Contains(t, out.String(), "disability companion")
}

func TestRunErrors(t *testing.T) {
	opts := sampleOptions()
	opts.groupPath = "missing.yaml"
	assert.Error(t, run(context.Background(), &bytes.Buffer{}, opts))

	opts = sampleOptions()
	opts.date = "yesterday"
	assert.Error(t, run(context.Background(), &bytes.Buffer{}, opts))

	opts = sampleOptions()
	opts.price = 0
	assert.Error(t, run(context.Background(), &bytes.Buffer{}, opts))
}
