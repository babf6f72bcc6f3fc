package glang

import (
	"encoding/json"
	"errors"
	"thechess/src/ui/gui/gbase/gassets"
)

type LangType int

const (
	EN LangType = iota
	RU
	ZZ
)

func LangTypeByString(lang string) LangType {
	switch lang {
	case "en":
		return EN
	case "ru":
		return RU
	default:
	}
	return ZZ
}

func (t LangType) String() string {
	switch t {
	case EN:
		return "en"
	case RU:
		return "ru"
	default:
	}
	return ""
}

type GUILangWorker struct {
	workdir string
	lang    LangType
	dict    map[string]string
}

// workdir may hold own translations, embedded ones are used otherwise
func NewGUILangWorker(workdir string, lang string) (*GUILangWorker, error) {
	lw := &GUILangWorker{
		dict:    make(map[string]string),
		workdir: workdir,
	}
	t := LangTypeByString(lang)
	if t == ZZ {
		return nil, errors.New("unsupported lang")
	}
	if err := lw.SetLang(t); err != nil {
		return nil, err
	}
	return lw, nil
}

func (lw *GUILangWorker) GetLang() LangType {
	return lw.lang
}

func (lw *GUILangWorker) SetLang(l LangType) error {
	data, err := gassets.ReadAsset(lw.workdir, "lang/"+l.String()+".json")
	if err != nil {
		return err
	}
	dict := make(map[string]string)
	if err := json.Unmarshal(data, &dict); err != nil {
		return err
	}
	lw.lang = l
	lw.dict = dict
	return nil
}

func (lw *GUILangWorker) T(key string) string {
	if v, ok := lw.dict[key]; ok {
		return v
	}
	return key // if key is not found
}
