package cvs_test

import (
	"context"
	"testing"

	"github.com/cvsbridge/cvsbridge/internal/cvs"
	"github.com/cvsbridge/cvsbridge/internal/process"
	"github.com/cvsbridge/cvsbridge/internal/process/processtest"
	"github.com/cvsbridge/cvsbridge/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zaptest"
)

func TestModule_RegistersOnInjectedRegisterer(t *testing.T) {
	registry := prometheus.NewRegistry()

	var executor *cvs.Executor
	app := fxtest.New(t,
		fx.Supply(zaptest.NewLogger(t)),
		fx.Supply(cvs.Config{DefaultRoot: root}),
		fx.Provide(func() process.Runner { return processtest.NewRunner() }),
		fx.Provide(session.New),
		fx.Provide(func() prometheus.Registerer { return registry }),
		cvs.Module(),
		fx.Populate(&executor),
	)
	app.RequireStart()
	defer app.RequireStop()

	outcome := executor.Execute(context.Background(), cvs.AddText{
		Location: cvs.Location{WorkDir: t.TempDir()},
		Path:     "a.txt",
	}, cvs.Sinks{})
	require.True(t, outcome.Succeeded)

	count, err := testutil.GatherAndCount(registry, "cvs_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
