package featureimportance

import (
	"bytes"
	"encoding/json"

	"medcost-service/internal/common/logger"
	"medcost-service/internal/ml"
)

const topN = 5

// Ranking marshals as a JSON object whose keys keep descending importance.
type Ranking []ml.FeatureWeight

func (r Ranking) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, w := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(w.Feature)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(w.Importance)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type Output struct {
	FeatureImportance Ranking  `json:"feature_importance"`
	TopFeatures       []string `json:"top_5_features"`
}

type Source interface {
	FeatureImportance() []ml.FeatureWeight
}

type ServiceDependencies struct {
	Model  Source
	Logger logger.Logger
}
