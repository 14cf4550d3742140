package sim

import (
	"fmt"
	"log"
	"os"
	"strings"
	"unicode"
)

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// NameMustBeValid panics if the name is empty or contains white spaces.
func NameMustBeValid(name string) {
	if name == "" {
		log.Panic("name must not be empty")
	}

	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		log.Panicf("name %q must not contain white spaces", name)
	}
}

// A Component is a element that is being simulated.
type Component interface {
	Named
	Hookable
	Ticker

	Ports() []Port
	GetPortByName(name string) Port
}

// ComponentBase provides some functions that other component can use.
type ComponentBase struct {
	HookableBase

	name      string
	ports     map[string]Port
	portOrder []string
}

// NewComponentBase creates a new ComponentBase
func NewComponentBase(name string) *ComponentBase {
	NameMustBeValid(name)

	c := new(ComponentBase)
	c.name = name
	c.ports = make(map[string]Port)

	return c
}

// Name returns the name of the BasicComponent
func (c *ComponentBase) Name() string {
	return c.name
}

// AddPort registers a port with the component under a short name.
func (c *ComponentBase) AddPort(name string, port Port) {
	if _, found := c.ports[name]; found {
		log.Panicf("port %s already exists on component %s", name, c.name)
	}

	c.ports[name] = port
	c.portOrder = append(c.portOrder, name)
}

// Ports returns the ports of the component in the order they are added.
func (c *ComponentBase) Ports() []Port {
	ports := make([]Port, 0, len(c.portOrder))
	for _, n := range c.portOrder {
		ports = append(ports, c.ports[n])
	}

	return ports
}

// GetPortByName returns the port by the name of the port.
func (c *ComponentBase) GetPortByName(name string) Port {
	port, found := c.ports[name]
	if !found {
		errMsg := fmt.Sprintf(
			"Port %s is not available on component %s.\n", name, c.name)
		errMsg += "Available ports include:\n"

		for _, n := range c.portOrder {
			errMsg += fmt.Sprintf("\t%s\n", n)
		}

		fmt.Fprint(os.Stderr, errMsg)

		panic("port not found")
	}

	return port
}
