// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// The floor renderer RECEIVES the device from the host, it never creates one.
// GPU backends (backend/native) type-assert the returned Device and Queue to
// the concrete HAL types they drive.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider so that any gogpu
// host context can be passed in directly.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a host without a GPU. The CPU preview backend and
// tests use it; GPU backends reject it because its device is nil.
type NullDeviceHandle struct{}

func (NullDeviceHandle) Device() gpucontext.Device   { return nil }
func (NullDeviceHandle) Queue() gpucontext.Queue     { return nil }
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat is undefined, so backends fall back to their own default.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "none", Type: gpucontext.AdapterTypeUnknown}
}

var _ DeviceHandle = NullDeviceHandle{}
