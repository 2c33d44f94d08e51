package model

// State はオプティマイザのライフサイクル状態を表す
type State int

const (
	// Uninitialized はパラメータベクトルがまだ生成されていない状態
	Uninitialized State = iota
	// Ready はパラメータベクトルと制御変量が生成済みの状態
	Ready
)

// String は状態名を返す
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Ready:
		return "Ready"
	default:
		return "Unknown"
	}
}
