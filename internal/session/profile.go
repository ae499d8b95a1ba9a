package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitriimaksimovdevelop/healthai/internal/advisor"
)

// Profile is the user's persisted personal information.
type Profile struct {
	Age         int     `json:"age"`
	Gender      string  `json:"gender"`
	Conditions  string  `json:"conditions"`
	Medications string  `json:"medications"`
	Allergies   string  `json:"allergies"`
	WeightKg    float64 `json:"weight_kg,omitempty"`
	HeightCm    float64 `json:"height_cm,omitempty"`
}

// DefaultProfile returns the profile used before the user fills one in.
func DefaultProfile() Profile {
	return Profile{
		Age:         30,
		Gender:      "Not specified",
		Conditions:  "None",
		Medications: "None",
		Allergies:   "None",
	}
}

// LoadProfile reads a profile from path. A missing file yields
// DefaultProfile and no error. Keys absent from the file keep their default.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return DefaultProfile(), fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}

// SaveProfile writes p to path as indented JSON, replacing the file
// atomically.
func SaveProfile(path string, p Profile) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".profile-*.json")
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("save profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// PatientInfo converts the profile into advisory context. Placeholder
// values such as "None" and "Not specified" are dropped.
func (p Profile) PatientInfo() *advisor.PatientInfo {
	return &advisor.PatientInfo{
		Age:         p.Age,
		Gender:      unset(p.Gender),
		Conditions:  unset(p.Conditions),
		Medications: unset(p.Medications),
		Allergies:   unset(p.Allergies),
		WeightKg:    p.WeightKg,
		HeightCm:    p.HeightCm,
	}
}

func unset(s string) string {
	switch strings.TrimSpace(s) {
	case "None", "Not specified":
		return ""
	}
	return strings.TrimSpace(s)
}
