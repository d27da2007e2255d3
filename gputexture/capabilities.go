// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gputexture

import (
	"fmt"

	"github.com/gogpu/wgpu/core"
)

// QueryDeviceCapabilities fills a DeviceCapabilities from a live wgpu
// adapter and device, so an allocator can reject or downgrade a
// descriptor against real hardware limits instead of a caller-supplied
// guess. It reports only what core.GetAdapterInfo/GetDeviceLimits
// actually expose; SupportsCompute and SupportsStorageTextures are left
// for the caller to set from feature-flag queries this module does not
// perform.
func QueryDeviceCapabilities(adapterID core.AdapterID, deviceID core.DeviceID) (DeviceCapabilities, error) {
	info, err := core.GetAdapterInfo(adapterID)
	if err != nil {
		return DeviceCapabilities{}, fmt.Errorf("gputexture: get adapter info: %w", err)
	}

	limits, err := core.GetDeviceLimits(deviceID)
	if err != nil {
		return DeviceCapabilities{}, fmt.Errorf("gputexture: get device limits: %w", err)
	}

	return DeviceCapabilities{
		MaxTextureSize: limits.MaxTextureDimension2D,
		VendorName:     info.Vendor,
		DeviceName:     info.Name,
	}, nil
}
