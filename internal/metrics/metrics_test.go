// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(IdeasAdded.WithLabelValues("sv"))
	IdeasAdded.WithLabelValues("sv").Add(3)
	assert.Equal(t, before+3, testutil.ToFloat64(IdeasAdded.WithLabelValues("sv")))
}

func TestServeEmptyAddrIsNoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	Serve(ctx, "", nil)
}
