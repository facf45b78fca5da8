// Package catalog is the table registry: the map from table name and
// TableID to the on-disk DbFile and primary-key column that realize
// it.
//
// Grounded on the donor's pkg/memory/manager.go TableManager
// (nameToTable/idToTable maps, AddTable/GetTableID/GetTableName/
// RemoveTable/GetDbFile/TableExists/RenameTable), trimmed of its
// ValidateIntegrity/String diagnostics and its coupling to the
// planner's statistics hooks — this catalog only ever needs to answer
// "what file backs this table" and "what's its primary key column".
package catalog

import (
	"fmt"
	"sync"

	"heapbase/pkg/dberrors"
	"heapbase/pkg/primitives"
	"heapbase/pkg/storage/page"
)

type entry struct {
	file    page.DbFile
	name    string
	pkField string
}

// Catalog is the engine's table registry. Safe for concurrent use.
type Catalog struct {
	mutex    sync.RWMutex
	byID     map[primitives.TableID]*entry
	nameToID map[string]primitives.TableID
}

func New() *Catalog {
	return &Catalog{
		byID:     make(map[primitives.TableID]*entry),
		nameToID: make(map[string]primitives.TableID),
	}
}

// AddTable registers file under name with the given primary-key
// column (empty if the table has none). If name was already
// registered, the new registration wins for future name lookups —
// the old file remains reachable only by its own TableID until
// explicitly removed, matching the "most recently added table wins"
// rule.
func (c *Catalog) AddTable(file page.DbFile, name string, pkField string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.byID[file.ID()] = &entry{file: file, name: name, pkField: pkField}
	c.nameToID[name] = file.ID()
}

func (c *Catalog) GetTableID(name string) (primitives.TableID, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	id, ok := c.nameToID[name]
	if !ok {
		return 0, dberrors.New(dberrors.NotFound, fmt.Sprintf("catalog: no table named %q", name))
	}
	return id, nil
}

func (c *Catalog) GetTableName(id primitives.TableID) (string, error) {
	e, err := c.get(id)
	if err != nil {
		return "", err
	}
	return e.name, nil
}

func (c *Catalog) GetDbFile(id primitives.TableID) (page.DbFile, error) {
	e, err := c.get(id)
	if err != nil {
		return nil, err
	}
	return e.file, nil
}

func (c *Catalog) GetPrimaryKey(id primitives.TableID) (string, error) {
	e, err := c.get(id)
	if err != nil {
		return "", err
	}
	return e.pkField, nil
}

func (c *Catalog) get(id primitives.TableID) (*entry, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.byID[id]
	if !ok {
		return nil, dberrors.New(dberrors.NotFound, fmt.Sprintf("catalog: no table with id %d", id))
	}
	return e, nil
}

func (c *Catalog) TableExists(name string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	_, ok := c.nameToID[name]
	return ok
}

// RemoveTable drops id from the registry entirely, including the name
// mapping if it still points at id (a later AddTable under the same
// name will already have overwritten nameToID, so this is a no-op on
// the name map in that case).
func (c *Catalog) RemoveTable(id primitives.TableID) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	e, ok := c.byID[id]
	if !ok {
		return dberrors.New(dberrors.NotFound, fmt.Sprintf("catalog: no table with id %d", id))
	}
	delete(c.byID, id)
	if c.nameToID[e.name] == id {
		delete(c.nameToID, e.name)
	}
	return nil
}

// AllTableIDs returns every registered TableID, in no particular order.
func (c *Catalog) AllTableIDs() []primitives.TableID {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	ids := make([]primitives.TableID, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	return ids
}
