package model

import (
	"encoding/json"
	"fmt"
)

// ModelWeights はクライアント状態を表す構造体（シリアライゼーション用）
type ModelWeights struct {
	// ModelType はオブジェクティブの種類（LogisticObjective 等）
	ModelType string `json:"model_type"`

	// Version は互換性チェック用のバージョン
	Version string `json:"version"`

	// Coefficients はパラメータベクトル w
	Coefficients []float64 `json:"coefficients"`

	// ControlVariate はクライアントの制御変量 c_client
	ControlVariate []float64 `json:"control_variate,omitempty"`

	// Rounds は完了したフェデレーテッドラウンド数
	Rounds int `json:"rounds"`

	// Metadata は追加のメタデータ
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// IsReady はパラメータが生成済みかどうか
	IsReady bool `json:"is_ready"`
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON はJSON形式からModelWeightsをデシリアライズ
func (mw *ModelWeights) FromJSON(data []byte) error {
	return json.Unmarshal(data, mw)
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return fmt.Errorf("model_type is required")
	}
	if mw.Version == "" {
		return fmt.Errorf("version is required")
	}
	if !mw.IsReady && len(mw.Coefficients) > 0 {
		return fmt.Errorf("uninitialized model should not have coefficients")
	}
	if mw.IsReady && len(mw.Coefficients) == 0 {
		return fmt.Errorf("ready model must have coefficients")
	}
	if len(mw.ControlVariate) > 0 && len(mw.ControlVariate) != len(mw.Coefficients) {
		return fmt.Errorf("control_variate has length %d, coefficients %d", len(mw.ControlVariate), len(mw.Coefficients))
	}
	return nil
}

// Clone はModelWeightsのディープコピーを作成
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := &ModelWeights{
		ModelType:      mw.ModelType,
		Version:        mw.Version,
		Rounds:         mw.Rounds,
		IsReady:        mw.IsReady,
		Coefficients:   append([]float64(nil), mw.Coefficients...),
		ControlVariate: append([]float64(nil), mw.ControlVariate...),
		Metadata:       make(map[string]interface{}, len(mw.Metadata)),
	}
	for k, v := range mw.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}
