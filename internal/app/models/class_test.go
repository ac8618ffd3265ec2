package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClass_Capacity(t *testing.T) {
	two := int32(2)

	full := Class{MaxStudents: &two, EnrolledStudents: 2}
	assert.Equal(t, int64(2), full.Capacity())
	assert.True(t, full.IsFull())

	open := Class{MaxStudents: &two, EnrolledStudents: 1}
	assert.False(t, open.IsFull())

	assert.Equal(t, int64(5), CapacityOf(int32Ptr(5)))
	assert.Equal(t, int64(0), CapacityOf(nil))

	noCapacity := Class{}
	assert.Equal(t, int64(0), noCapacity.Capacity())
	assert.True(t, noCapacity.IsFull())
}

func int32Ptr(v int32) *int32 { return &v }
