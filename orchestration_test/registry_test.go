package goboot_test

import (
	"errors"
	"reflect"
	"testing"

	goboot "github.com/centraunit/goboot"
	"github.com/centraunit/goboot/mock"
	"github.com/stretchr/testify/suite"
)

type RegistryTestSuite struct {
	suite.Suite
}

func (s *RegistryTestSuite) TestResolveAllKeepsRegistrationOrder() {
	c := goboot.NewContainer()
	first := &mock.Task{Name: "first"}
	second := &mock.Task{Name: "second"}

	s.NoError(goboot.Bind[goboot.StartupTask](c, first))
	s.NoError(goboot.Bind[goboot.StartupTask](c, second))

	instances, err := c.ResolveAll(goboot.InterfaceOf[goboot.StartupTask]())
	s.NoError(err)
	s.Len(instances, 2)
	s.Same(first, instances[0])
	s.Same(second, instances[1])
}

func (s *RegistryTestSuite) TestResolveAllOnUnboundCapabilityIsEmpty() {
	c := goboot.NewContainer()
	instances, err := c.ResolveAll(goboot.InterfaceOf[goboot.StartupTask]())
	s.NoError(err)
	s.Empty(instances)
}

func (s *RegistryTestSuite) TestResolveOnUnboundCapabilityFails() {
	c := goboot.NewContainer()
	_, err := c.Resolve(goboot.InterfaceOf[mock.IWidgetService]())

	var notFound *goboot.BindingNotFoundError
	s.True(errors.As(err, &notFound))
}

func (s *RegistryTestSuite) TestAddIfAbsentNeverOverwrites() {
	c := goboot.NewContainer()
	capability := goboot.InterfaceOf[mock.IWidgetService]()
	original := &mock.WidgetService{}

	s.NoError(c.Register(capability, original, goboot.LifetimeSingleton, false))
	s.NoError(c.Register(capability, &mock.ExtendedWidgetService{}, goboot.LifetimeSingleton, true))

	instances, err := c.ResolveAll(capability)
	s.NoError(err)
	s.Len(instances, 1)
	s.Same(original, instances[0])
}

func (s *RegistryTestSuite) TestNilImplementationIsRejected() {
	c := goboot.NewContainer()
	var widget *mock.WidgetService

	err := c.Register(goboot.InterfaceOf[mock.IWidgetService](), widget, goboot.LifetimeSingleton, false)
	var nilErr *goboot.NilServiceError
	s.True(errors.As(err, &nilErr))
}

func (s *RegistryTestSuite) TestMismatchedImplementationIsRejected() {
	c := goboot.NewContainer()

	err := c.Register(goboot.InterfaceOf[mock.IWidgetService](), &mock.SystemInit{}, goboot.LifetimeSingleton, false)
	var mismatch *goboot.TypeMismatchError
	s.True(errors.As(err, &mismatch))
}

func (s *RegistryTestSuite) TestFindExistingIgnoresNamedBindings() {
	c := goboot.NewContainer()
	s.NoError(goboot.BindNamed[mock.IWidgetService](c, "primary", &mock.WidgetService{}))

	_, ok := c.FindExisting(reflect.TypeOf(&mock.WidgetService{}))
	s.False(ok, "named bindings do not participate in convention reuse")

	s.NoError(goboot.Bind[mock.IWidgetService](c, &mock.WidgetService{}))
	capability, ok := c.FindExisting(reflect.TypeOf(&mock.WidgetService{}))
	s.True(ok)
	s.Equal(goboot.InterfaceOf[mock.IWidgetService](), capability)
}

func (s *RegistryTestSuite) TestFactoryBindingsYieldFreshInstances() {
	c := goboot.NewContainer()
	built := 0
	s.NoError(goboot.BindFactory[mock.IWidgetService](c, func() mock.IWidgetService {
		built++
		return &mock.WidgetService{}
	}))

	first, err := c.Resolve(goboot.InterfaceOf[mock.IWidgetService]())
	s.NoError(err)
	second, err := c.Resolve(goboot.InterfaceOf[mock.IWidgetService]())
	s.NoError(err)

	s.NotSame(first, second)
	s.Equal(2, built)
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}
