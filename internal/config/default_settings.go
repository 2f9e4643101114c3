package config

import "github.com/tauraamui/dragoncompositor/pkg/configdef"

type defaultSettingKey uint

const (
	BACKEND          defaultSettingKey = 0x0
	DEVICE           defaultSettingKey = 0x1
	PARAMETERSPATH   defaultSettingKey = 0x2
	OVERLAYPATH      defaultSettingKey = 0x3
	DISPLAY          defaultSettingKey = 0x4
	WINDOWTITLE      defaultSettingKey = 0x5
	CANCELKEY        defaultSettingKey = 0x6
	POLLCANCELMILLIS defaultSettingKey = 0x7
	MOCKWIDTH        defaultSettingKey = 0x8
	MOCKHEIGHT       defaultSettingKey = 0x9
)

var defaultSettings = map[defaultSettingKey]interface{}{
	BACKEND:          "opencv",
	DEVICE:           "0",
	PARAMETERSPATH:   "parameters.txt",
	OVERLAYPATH:      "overlay.png",
	DISPLAY:          "window",
	WINDOWTITLE:      "Live Output Image",
	CANCELKEY:        27,
	POLLCANCELMILLIS: 10,
	MOCKWIDTH:        800,
	MOCKHEIGHT:       480,
}

func defaultValues() configdef.Values {
	values := configdef.Values{}
	applyDefaults(&values)
	return values
}

// applyDefaults fills every zero valued field, explicit values are kept.
func applyDefaults(values *configdef.Values) {
	setString(&values.Backend, BACKEND)
	setString(&values.Device, DEVICE)
	setString(&values.ParametersPath, PARAMETERSPATH)
	setString(&values.OverlayPath, OVERLAYPATH)
	setString(&values.Display, DISPLAY)
	setString(&values.WindowTitle, WINDOWTITLE)
	setInt(&values.CancelKey, CANCELKEY)
	setInt(&values.PollCancelMillis, POLLCANCELMILLIS)
	setInt(&values.MockWidth, MOCKWIDTH)
	setInt(&values.MockHeight, MOCKHEIGHT)
}

func setString(field *string, key defaultSettingKey) {
	if len(*field) == 0 {
		*field = defaultSettings[key].(string)
	}
}

func setInt(field *int, key defaultSettingKey) {
	if *field == 0 {
		*field = defaultSettings[key].(int)
	}
}
