package goboot_test

import (
	"context"
	"errors"
	"testing"

	goboot "github.com/centraunit/goboot"
	"github.com/centraunit/goboot/mock"
	"github.com/centraunit/goboot/telemetry"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type OrchestratorTestSuite struct {
	suite.Suite
}

func (s *OrchestratorTestSuite) TestPhasesRunInOrder() {
	rec := &mock.Recorder{}
	c := goboot.NewContainer()
	o := goboot.New(goboot.Config{Registry: c})

	s.NoError(goboot.Bind[goboot.SystemInitializer](c, &mock.SystemInit{Name: "schema", Rec: rec}))
	s.NoError(goboot.BindAuto[mock.ICacheWarmer](o, &mock.CacheWarmer{Rec: rec}))
	s.NoError(goboot.Bind[goboot.StartupTask](c, &mock.Task{Name: "probe", Seq: 1, Rec: rec}))

	s.NoError(o.Run(context.Background()))
	s.Equal([]string{"system:schema", "auto:CacheWarmer", "startup:probe"}, rec.Events())
	s.Equal(goboot.StateCompleted, o.State())
}

func (s *OrchestratorTestSuite) TestSystemInitializersKeepRegistrationOrder() {
	rec := &mock.Recorder{}
	c := goboot.NewContainer()
	o := goboot.New(goboot.Config{Registry: c})

	s.NoError(goboot.Bind[goboot.SystemInitializer](c, &mock.SystemInit{Name: "first", Rec: rec}))
	s.NoError(goboot.Bind[goboot.SystemInitializer](c, &mock.SystemInit{Name: "second", Rec: rec}))
	s.NoError(goboot.Bind[goboot.SystemInitializer](c, &mock.SystemInit{Name: "third", Rec: rec}))

	s.NoError(o.Run(context.Background()))
	s.Equal([]string{"system:first", "system:second", "system:third"}, rec.Events())
}

func (s *OrchestratorTestSuite) TestStartupTasksRunAscendingByOrder() {
	rec := &mock.Recorder{}
	c := goboot.NewContainer()
	o := goboot.New(goboot.Config{Registry: c})

	s.NoError(goboot.Bind[goboot.StartupTask](c, &mock.Task{Name: "five", Seq: 5, Rec: rec}))
	s.NoError(goboot.Bind[goboot.StartupTask](c, &mock.Task{Name: "one", Seq: 1, Rec: rec}))
	s.NoError(goboot.Bind[goboot.StartupTask](c, &mock.Task{Name: "ten", Seq: 10, Rec: rec}))

	s.NoError(o.Run(context.Background()))
	s.Equal([]string{"startup:one", "startup:five", "startup:ten"}, rec.Events())
}

func (s *OrchestratorTestSuite) TestEqualOrdersKeepRegistrationOrder() {
	rec := &mock.Recorder{}
	c := goboot.NewContainer()
	o := goboot.New(goboot.Config{Registry: c})

	s.NoError(goboot.Bind[goboot.StartupTask](c, &mock.Task{Name: "a", Seq: 1, Rec: rec}))
	s.NoError(goboot.Bind[goboot.StartupTask](c, &mock.Task{Name: "b", Seq: 1, Rec: rec}))
	s.NoError(goboot.Bind[goboot.StartupTask](c, &mock.Task{Name: "c", Seq: 0, Rec: rec}))

	s.NoError(o.Run(context.Background()))
	s.Equal([]string{"startup:c", "startup:a", "startup:b"}, rec.Events())
}

func (s *OrchestratorTestSuite) TestSecondRunFailsWithoutExecuting() {
	rec := &mock.Recorder{}
	c := goboot.NewContainer()
	o := goboot.New(goboot.Config{Registry: c})

	s.NoError(goboot.Bind[goboot.SystemInitializer](c, &mock.SystemInit{Name: "schema", Rec: rec}))
	s.NoError(goboot.Bind[goboot.StartupTask](c, &mock.Task{Name: "probe", Seq: 1, Rec: rec}))

	s.NoError(o.Run(context.Background()))
	executed := rec.Count()
	s.Equal(2, executed)

	err := o.Run(context.Background())
	var already *goboot.AlreadyInitializedError
	s.True(errors.As(err, &already))
	s.Equal(executed, rec.Count(), "second call must not execute anything")
}

func (s *OrchestratorTestSuite) TestFailingSystemInitializerAbortsDownstream() {
	rec := &mock.Recorder{}
	boom := errors.New("schema migration failed")
	c := goboot.NewContainer()
	o := goboot.New(goboot.Config{Registry: c})

	s.NoError(goboot.Bind[goboot.SystemInitializer](c, &mock.SystemInit{Name: "schema", Rec: rec, Fail: boom}))
	s.NoError(goboot.BindAuto[mock.ICacheWarmer](o, &mock.CacheWarmer{Rec: rec}))
	s.NoError(goboot.Bind[goboot.StartupTask](c, &mock.Task{Name: "probe", Seq: 1, Rec: rec}))

	err := o.Run(context.Background())
	s.Error(err)

	var perr *goboot.PhaseError
	s.True(errors.As(err, &perr))
	s.Equal(goboot.PhaseSystem, perr.Phase)
	s.Equal("SystemInit", perr.Impl)
	s.True(errors.Is(err, boom))

	s.Equal([]string{"system:schema"}, rec.Events(), "no auto or startup execution after system failure")
	s.Equal(goboot.StateFailed, o.State())
}

func (s *OrchestratorTestSuite) TestFailingStartupTaskCarriesOrder() {
	rec := &mock.Recorder{}
	boom := errors.New("probe refused")
	c := goboot.NewContainer()
	o := goboot.New(goboot.Config{Registry: c})

	s.NoError(goboot.Bind[goboot.StartupTask](c, &mock.Task{Name: "ok", Seq: 1, Rec: rec}))
	s.NoError(goboot.Bind[goboot.StartupTask](c, &mock.Task{Name: "bad", Seq: 2, Rec: rec, Fail: boom}))
	s.NoError(goboot.Bind[goboot.StartupTask](c, &mock.Task{Name: "never", Seq: 3, Rec: rec}))

	err := o.Run(context.Background())
	var perr *goboot.PhaseError
	s.True(errors.As(err, &perr))
	s.Equal(goboot.PhaseStartup, perr.Phase)
	s.Equal(2, perr.Order)
	s.True(errors.Is(err, boom))

	s.Equal([]string{"startup:ok", "startup:bad"}, rec.Events())
}

func (s *OrchestratorTestSuite) TestTrackingClearedAfterSuccessfulRun() {
	o := goboot.New(goboot.Config{})
	s.NoError(goboot.BindAuto[mock.ICacheWarmer](o, &mock.CacheWarmer{}))
	s.Len(o.Tracked(), 1)

	s.NoError(o.Run(context.Background()))
	s.Empty(o.Tracked())
}

func (s *OrchestratorTestSuite) TestTrackingClearedAfterFailedAutoPhase() {
	o := goboot.New(goboot.Config{})
	s.NoError(goboot.BindAuto[mock.ICacheWarmer](o, &mock.CacheWarmer{Fail: errors.New("cache backend down")}))
	s.Len(o.Tracked(), 1)

	err := o.Run(context.Background())
	s.Error(err)
	s.Empty(o.Tracked(), "tracking list is drained even when the auto phase fails")
}

func (s *OrchestratorTestSuite) TestTrackedCapabilityWithoutBindingIsSkipped() {
	rec := &mock.Recorder{}
	c := goboot.NewContainer()
	o := goboot.New(goboot.Config{Registry: c})

	// Tracked but never registered: resolution failure is skipped silently.
	o.Track(goboot.InterfaceOf[mock.IWidgetService]())
	s.NoError(goboot.Bind[goboot.StartupTask](c, &mock.Task{Name: "probe", Seq: 1, Rec: rec}))

	s.NoError(o.Run(context.Background()))
	s.Equal([]string{"startup:probe"}, rec.Events())
}

func (s *OrchestratorTestSuite) TestRunEmitsSpans() {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	rec := &mock.Recorder{}
	c := goboot.NewContainer()
	o := goboot.New(goboot.Config{Registry: c, Tracer: tp.Tracer(telemetry.LibraryName)})

	s.NoError(goboot.Bind[goboot.SystemInitializer](c, &mock.SystemInit{Name: "schema", Rec: rec}))
	s.NoError(goboot.Bind[goboot.StartupTask](c, &mock.Task{Name: "probe", Seq: 7, Rec: rec}))

	s.NoError(o.Run(context.Background()))

	spans := sr.Ended()
	s.Len(spans, 3, "one instance span per entry point plus the run span")

	var names []string
	for _, span := range spans {
		names = append(names, span.Name())
	}
	s.Contains(names, telemetry.SpanRun)
	s.Contains(names, telemetry.SpanInstance)

	root := spans[len(spans)-1]
	s.Equal(telemetry.SpanRun, root.Name())
	s.GreaterOrEqual(len(root.Events()), 6, "start and complete events for each phase")
}

func (s *OrchestratorTestSuite) TestFailedInstanceMarksSpanError() {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	c := goboot.NewContainer()
	o := goboot.New(goboot.Config{Registry: c, Tracer: tp.Tracer(telemetry.LibraryName)})
	s.NoError(goboot.Bind[goboot.SystemInitializer](c, &mock.SystemInit{Name: "schema", Fail: errors.New("boom")}))

	s.Error(o.Run(context.Background()))

	var sawError bool
	for _, span := range sr.Ended() {
		if span.Status().Code == codes.Error {
			sawError = true
		}
	}
	s.True(sawError, "a span must carry error status after an instance failure")
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
