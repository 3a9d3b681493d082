package models

import (
	"encoding/json"
	"fmt"
)

type GroupType string

const (
	GroupNormal   GroupType = "normal"
	GroupSuperset GroupType = "superset"
)

type Equipment string

const (
	EquipmentBarbell      Equipment = "barbell"
	EquipmentDumbbell     Equipment = "dumbbell"
	EquipmentSmithMachine Equipment = "smith_machine"
	EquipmentCable        Equipment = "cable"
	EquipmentMachine      Equipment = "machine"
	EquipmentLegPress     Equipment = "leg_press"
	EquipmentTrapBar      Equipment = "trap_bar"
)

type BenchAngle string

const (
	AngleDecline   BenchAngle = "decline"
	AngleFlat      BenchAngle = "flat"
	AngleIncline30 BenchAngle = "incline_30"
	AngleIncline45 BenchAngle = "incline_45"
)

type GripWidth string

const (
	GripNarrow   GripWidth = "narrow"
	GripStandard GripWidth = "standard"
	GripWide     GripWidth = "wide"
)

// Attachment is the cable handle in use. Only meaningful for cable exercises.
type Attachment string

const (
	AttachmentWideBar      Attachment = "wide_bar"
	AttachmentParallel     Attachment = "parallel"
	AttachmentMagGrip      Attachment = "mag_grip"
	AttachmentRope         Attachment = "rope"
	AttachmentDHandle      Attachment = "d_handle"
	AttachmentSingleHandle Attachment = "single_handle"
	AttachmentStraightBar  Attachment = "straight_bar"
	AttachmentVBar         Attachment = "v_bar"
)

var groupTypeLabels = map[GroupType]string{
	GroupNormal:   "Normal",
	GroupSuperset: "Superset",
}

var equipmentLabels = map[Equipment]string{
	EquipmentBarbell:      "Barbell",
	EquipmentDumbbell:     "Dumbbell",
	EquipmentSmithMachine: "Smith machine",
	EquipmentCable:        "Cable",
	EquipmentMachine:      "Machine",
	EquipmentLegPress:     "Leg press",
	EquipmentTrapBar:      "Trap bar",
}

var benchAngleLabels = map[BenchAngle]string{
	AngleDecline:   "Decline",
	AngleFlat:      "Flat",
	AngleIncline30: "Incline 30°",
	AngleIncline45: "Incline 45°",
}

var gripWidthLabels = map[GripWidth]string{
	GripNarrow:   "Narrow",
	GripStandard: "Standard",
	GripWide:     "Wide",
}

var attachmentLabels = map[Attachment]string{
	AttachmentWideBar:      "Wide bar",
	AttachmentParallel:     "Parallel",
	AttachmentMagGrip:      "MAG grip",
	AttachmentRope:         "Rope",
	AttachmentDHandle:      "D-handle",
	AttachmentSingleHandle: "Single handle",
	AttachmentStraightBar:  "Straight bar",
	AttachmentVBar:         "V-bar",
}

// ordered value lists, in display order
var (
	groupTypeValues  = []GroupType{GroupNormal, GroupSuperset}
	equipmentValues  = []Equipment{EquipmentBarbell, EquipmentDumbbell, EquipmentSmithMachine, EquipmentCable, EquipmentMachine, EquipmentLegPress, EquipmentTrapBar}
	benchAngleValues = []BenchAngle{AngleDecline, AngleFlat, AngleIncline30, AngleIncline45}
	gripWidthValues  = []GripWidth{GripNarrow, GripStandard, GripWide}
	attachmentValues = []Attachment{AttachmentWideBar, AttachmentParallel, AttachmentMagGrip, AttachmentRope, AttachmentDHandle, AttachmentSingleHandle, AttachmentStraightBar, AttachmentVBar}
)

// UnknownValueError is returned when a string does not name a member of a closed enum.
type UnknownValueError struct {
	Kind  string
	Value string
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Value)
}

func parseEnum[T ~string](kind, s string, labels map[T]string) (T, error) {
	v := T(s)
	if _, ok := labels[v]; !ok {
		return "", &UnknownValueError{Kind: kind, Value: s}
	}
	return v, nil
}

func unmarshalEnum[T ~string](data []byte, kind string, labels map[T]string, dst *T) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%s must be a string: %w", kind, err)
	}
	v, err := parseEnum(kind, s, labels)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func ParseGroupType(s string) (GroupType, error) {
	return parseEnum("group type", s, groupTypeLabels)
}

func ParseEquipment(s string) (Equipment, error) {
	return parseEnum("equipment", s, equipmentLabels)
}

func ParseBenchAngle(s string) (BenchAngle, error) {
	return parseEnum("bench angle", s, benchAngleLabels)
}

func ParseGripWidth(s string) (GripWidth, error) {
	return parseEnum("grip width", s, gripWidthLabels)
}

func ParseAttachment(s string) (Attachment, error) {
	return parseEnum("attachment", s, attachmentLabels)
}

func GroupTypes() []GroupType      { return append([]GroupType(nil), groupTypeValues...) }
func EquipmentValues() []Equipment { return append([]Equipment(nil), equipmentValues...) }
func BenchAngles() []BenchAngle    { return append([]BenchAngle(nil), benchAngleValues...) }
func GripWidths() []GripWidth      { return append([]GripWidth(nil), gripWidthValues...) }
func Attachments() []Attachment    { return append([]Attachment(nil), attachmentValues...) }

func (g GroupType) Label() string  { return labelOr(groupTypeLabels, g) }
func (e Equipment) Label() string  { return labelOr(equipmentLabels, e) }
func (a BenchAngle) Label() string { return labelOr(benchAngleLabels, a) }
func (g GripWidth) Label() string  { return labelOr(gripWidthLabels, g) }
func (a Attachment) Label() string { return labelOr(attachmentLabels, a) }

func labelOr[T ~string](labels map[T]string, v T) string {
	if l, ok := labels[v]; ok {
		return l
	}
	return string(v)
}

func (g *GroupType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, "group type", groupTypeLabels, g)
}

func (e *Equipment) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, "equipment", equipmentLabels, e)
}

func (a *BenchAngle) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, "bench angle", benchAngleLabels, a)
}

func (g *GripWidth) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, "grip width", gripWidthLabels, g)
}

func (a *Attachment) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, "attachment", attachmentLabels, a)
}
