package memory

import (
	"context"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
	"github.com/cea-hpc/phobos-dss/pkg/dss/store"
)

// GetDevice returns a device by its identity.
func (s *Store) GetDevice(ctx context.Context, id dss.PhoID) (*dss.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dev, ok := s.devices[id]
	if !ok {
		return nil, dss.NewNotFound(dss.KindDevice, id.String())
	}
	return clone(*dev), nil
}

// ListDevices returns devices matching pred.
func (s *Store) ListDevices(ctx context.Context, pred filter.Predicate) ([]*dss.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*dss.Device
	for _, dev := range s.devices {
		ok, err := matches(pred, filter.DeviceFields, toRecord(dev))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, clone(*dev))
		}
	}
	return out, nil
}

// InsertDevice creates a new device entry.
func (s *Store) InsertDevice(ctx context.Context, dev *dss.Device, mode store.InsertMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.devices[dev.ID]; exists {
		return dss.NewAlreadyExists(dss.KindDevice, dev.ID.String())
	}
	stored := clone(*dev)
	if stored.AdmStatus == "" {
		stored.AdmStatus = dss.AdminStatusUnlocked
	}
	s.devices[dev.ID] = stored
	return nil
}

// UpdateDeviceAdmStatus changes a device's administrative status.
func (s *Store) UpdateDeviceAdmStatus(ctx context.Context, id dss.PhoID, status dss.AdminStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dev, ok := s.devices[id]
	if !ok {
		return dss.NewNotFound(dss.KindDevice, id.String())
	}
	dev.AdmStatus = status
	return nil
}

// UpdateDeviceHost changes the host a device is currently attached to.
func (s *Store) UpdateDeviceHost(ctx context.Context, id dss.PhoID, host string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dev, ok := s.devices[id]
	if !ok {
		return dss.NewNotFound(dss.KindDevice, id.String())
	}
	dev.Host = host
	return nil
}

// DeleteDevice removes a device entry.
func (s *Store) DeleteDevice(ctx context.Context, id dss.PhoID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.devices[id]; !exists {
		return dss.NewNotFound(dss.KindDevice, id.String())
	}
	delete(s.devices, id)
	return nil
}
