// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e2ap

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"sigs.k8s.io/yaml"

	"codello.dev/e2ap/ie"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Presence indicates whether a message must carry an IE.
type Presence string

const (
	Mandatory   Presence = "mandatory"
	Optional    Presence = "optional"
	Conditional Presence = "conditional"
)

// Procedure describes an elementary procedure. Message names are empty for
// outcomes the procedure does not have.
type Procedure struct {
	Name         string         `json:"name"`
	Code         int64          `json:"code"`
	Criticality  ie.Criticality `json:"criticality"`
	Initiating   string         `json:"initiating,omitempty"`
	Successful   string         `json:"successful,omitempty"`
	Unsuccessful string         `json:"unsuccessful,omitempty"`
}

// message returns the name of the message of the given outcome.
func (p Procedure) message(o Outcome) string {
	switch o {
	case InitiatingMessage:
		return p.Initiating
	case SuccessfulOutcome:
		return p.Successful
	case UnsuccessfulOutcome:
		return p.Unsuccessful
	}
	return ""
}

// IEInfo assigns an identifier to a protocol IE. Type names the type of the
// IE value and defaults to Name.
type IEInfo struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
	Type string `json:"type,omitempty"`
}

// MessageIE lists an IE as part of a message.
type MessageIE struct {
	IE          string         `json:"ie"`
	Criticality ie.Criticality `json:"criticality"`
	Presence    Presence       `json:"presence"`
}

// MessageInfo lists the IEs of a message in the order a sender emits them.
type MessageInfo struct {
	Name string      `json:"name"`
	IEs  []MessageIE `json:"ies"`
}

// A Catalog holds the identifier assignments of the protocol: procedure codes,
// protocol IE identifiers and the IEs each message carries. A Catalog must not
// be modified once it is in use.
type Catalog struct {
	Version    string        `json:"version"`
	Procedures []Procedure   `json:"procedures"`
	IEs        []IEInfo      `json:"ies"`
	Messages   []MessageInfo `json:"messages"`

	procByName map[string]int
	procByCode map[int64]int
	ieByName   map[string]int
	ieByID     map[int64]int
	msgByName  map[string]int
}

// DefaultCatalog returns the built-in catalog of E2AP v02.03 assignments. The
// returned catalog is shared and must not be modified.
var DefaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
})

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("e2ap: catalog load failed (%s): %w", path, err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return c, nil
}

// ParseCatalog parses a catalog in YAML or JSON format. Unknown keys are an
// error.
func ParseCatalog(data []byte) (*Catalog, error) {
	c := new(Catalog)
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("e2ap: catalog parse failed: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, fmt.Errorf("e2ap: invalid catalog: %w", err)
	}
	return c, nil
}

// index validates c and builds its lookup tables.
func (c *Catalog) index() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	c.ieByName = make(map[string]int, len(c.IEs))
	c.ieByID = make(map[int64]int, len(c.IEs))
	for i := range c.IEs {
		e := &c.IEs[i]
		if e.Type == "" {
			e.Type = e.Name
		}
		switch _, dupName := c.ieByName[e.Name]; {
		case e.Name == "":
			fail("ies[%d]: missing name", i)
		case dupName:
			fail("ies[%d]: duplicate IE %s", i, e.Name)
		case e.ID < 0 || e.ID > maxProtocolIEs:
			fail("ies[%d]: %s: id %d out of range", i, e.Name, e.ID)
		}
		if j, ok := c.ieByID[e.ID]; ok {
			fail("ies[%d]: %s: id %d already assigned to %s", i, e.Name, e.ID, c.IEs[j].Name)
		}
		c.ieByName[e.Name] = i
		c.ieByID[e.ID] = i
	}

	c.msgByName = make(map[string]int, len(c.Messages))
	for i, m := range c.Messages {
		if _, dup := c.msgByName[m.Name]; dup || m.Name == "" {
			fail("messages[%d]: missing or duplicate name %q", i, m.Name)
		}
		c.msgByName[m.Name] = i
		for j, e := range m.IEs {
			if _, ok := c.ieByName[e.IE]; !ok {
				fail("messages[%d].ies[%d]: unknown IE %q", i, j, e.IE)
			}
			switch e.Presence {
			case Mandatory, Optional, Conditional:
			default:
				fail("messages[%d].ies[%d]: invalid presence %q", i, j, e.Presence)
			}
			if !e.Criticality.IsValid() {
				fail("messages[%d].ies[%d]: invalid criticality", i, j)
			}
		}
	}

	c.procByName = make(map[string]int, len(c.Procedures))
	c.procByCode = make(map[int64]int, len(c.Procedures))
	for i, p := range c.Procedures {
		if _, dup := c.procByName[p.Name]; dup || p.Name == "" {
			fail("procedures[%d]: missing or duplicate name %q", i, p.Name)
		}
		if _, dup := c.procByCode[p.Code]; dup || p.Code < 0 || p.Code > maxProcedureCode {
			fail("procedures[%d]: %s: invalid or duplicate code %d", i, p.Name, p.Code)
		}
		for _, o := range outcomes {
			if name := p.message(o); name != "" {
				if _, ok := c.msgByName[name]; !ok {
					fail("procedures[%d]: %s: unknown %s %q", i, p.Name, o, name)
				}
			}
		}
		c.procByName[p.Name] = i
		c.procByCode[p.Code] = i
	}
	return errors.Join(errs...)
}

// IEID returns the identifier of the named IE.
func (c *Catalog) IEID(name string) (int64, bool) {
	i, ok := c.ieByName[name]
	if !ok {
		return 0, false
	}
	return c.IEs[i].ID, true
}

// IEName returns the name of the IE with the given identifier.
func (c *Catalog) IEName(id int64) (string, bool) {
	i, ok := c.ieByID[id]
	if !ok {
		return "", false
	}
	return c.IEs[i].Name, true
}

// IE returns the assignment of the named IE.
func (c *Catalog) IE(name string) (IEInfo, bool) {
	i, ok := c.ieByName[name]
	if !ok {
		return IEInfo{}, false
	}
	return c.IEs[i], true
}

// Procedure returns the named elementary procedure.
func (c *Catalog) Procedure(name string) (Procedure, bool) {
	i, ok := c.procByName[name]
	if !ok {
		return Procedure{}, false
	}
	return c.Procedures[i], true
}

// ProcedureByCode returns the elementary procedure with the given code.
func (c *Catalog) ProcedureByCode(code int64) (Procedure, bool) {
	i, ok := c.procByCode[code]
	if !ok {
		return Procedure{}, false
	}
	return c.Procedures[i], true
}

// Message returns the IE list of the named message.
func (c *Catalog) Message(name string) (MessageInfo, bool) {
	i, ok := c.msgByName[name]
	if !ok {
		return MessageInfo{}, false
	}
	return c.Messages[i], true
}
