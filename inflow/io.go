package inflow

import (
	"encoding/gob"
	"fmt"
	"os"
)

func (s *Series) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" inflow.SaveGob %v", err)
	}
	if err := gob.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf(" inflow.SaveGob %v", err)
	}
	f.Close()
	return nil
}

func LoadGobSeries(fp string) (*Series, error) {
	var s Series
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	enc := gob.NewDecoder(f)
	err = enc.Decode(&s)
	if err != nil {
		return nil, err
	}
	f.Close()
	return &s, nil
}
