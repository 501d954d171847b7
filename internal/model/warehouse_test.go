package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanBeChildOf(t *testing.T) {
	// 相邻层级才允许
	assert.True(t, CanBeChildOf(LocationKindZone, LocationKindWarehouse))
	assert.True(t, CanBeChildOf(LocationKindAisle, LocationKindZone))
	assert.True(t, CanBeChildOf(LocationKindRack, LocationKindAisle))
	assert.True(t, CanBeChildOf(LocationKindBin, LocationKindRack))

	// 跳级
	assert.False(t, CanBeChildOf(LocationKindBin, LocationKindZone))
	assert.False(t, CanBeChildOf(LocationKindRack, LocationKindWarehouse))
	// 同级与逆向
	assert.False(t, CanBeChildOf(LocationKindZone, LocationKindZone))
	assert.False(t, CanBeChildOf(LocationKindZone, LocationKindAisle))
	// BIN 不能有子节点
	assert.False(t, CanBeChildOf(LocationKindBin, LocationKindBin))
	// 非法 kind
	assert.False(t, CanBeChildOf("SHELF", LocationKindRack))
}

func TestValidLocationKind(t *testing.T) {
	for _, kind := range []string{
		LocationKindWarehouse, LocationKindZone, LocationKindAisle, LocationKindRack, LocationKindBin,
	} {
		assert.True(t, ValidLocationKind(kind))
	}
	assert.False(t, ValidLocationKind("SHELF"))
	assert.False(t, ValidLocationKind(""))
}

// 构造一条 WAREHOUSE -> ZONE -> AISLE -> RACK -> BIN 的链
func buildTestTree() map[int64]*WarehouseLocation {
	parentOf := func(id int64) *int64 { return &id }
	return map[int64]*WarehouseLocation{
		1: {ID: 1, Kind: LocationKindWarehouse, Code: "WH-MUM", ParentID: nil},
		2: {ID: 2, Kind: LocationKindZone, Code: "Z1", ParentID: parentOf(1)},
		3: {ID: 3, Kind: LocationKindAisle, Code: "A3", ParentID: parentOf(2)},
		4: {ID: 4, Kind: LocationKindRack, Code: "R12", ParentID: parentOf(3)},
		5: {ID: 5, Kind: LocationKindBin, Code: "B07", ParentID: parentOf(4)},
	}
}

func TestBuildLocationPath(t *testing.T) {
	locations := buildTestTree()

	path, ok := BuildLocationPath(5, locations)
	require.True(t, ok)
	require.Len(t, path, 5)

	codes := make([]string, 0, len(path))
	for _, node := range path {
		codes = append(codes, node.Code)
	}
	assert.Equal(t, []string{"WH-MUM", "Z1", "A3", "R12", "B07"}, codes)

	// 从中间节点回溯也可以
	path, ok = BuildLocationPath(3, locations)
	require.True(t, ok)
	assert.Len(t, path, 3)
	assert.Equal(t, "A3", path[2].Code)
}

func TestBuildLocationPathMissingNode(t *testing.T) {
	locations := buildTestTree()

	_, ok := BuildLocationPath(99, locations)
	assert.False(t, ok)
}

func TestBuildLocationPathBrokenChain(t *testing.T) {
	locations := buildTestTree()
	delete(locations, 3) // 打断 parent 链

	_, ok := BuildLocationPath(5, locations)
	assert.False(t, ok)
}

func TestBuildLocationPathCycle(t *testing.T) {
	// 人为制造环：2 的 parent 指回 5
	locations := buildTestTree()
	cycleParent := int64(5)
	locations[2].ParentID = &cycleParent

	_, ok := BuildLocationPath(5, locations)
	assert.False(t, ok)
}
