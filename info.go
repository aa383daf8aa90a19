package tm1637

// Info describes the chip and its electrical limits.
type Info struct {
	ChipName         string
	ManufacturerName string
	Interface        string
	SupplyVoltageMin float32 // V
	SupplyVoltageMax float32 // V
	MaxCurrent       float32 // mA
	TemperatureMin   float32 // °C
	TemperatureMax   float32 // °C
	DriverVersion    uint32
}

// GetInfo returns the chip identification.
func GetInfo() Info {
	return Info{
		ChipName:         "Titan Micro Electronics TM1637",
		ManufacturerName: "Titan Micro Electronics",
		Interface:        "IIC",
		SupplyVoltageMin: 3.3,
		SupplyVoltageMax: 5.5,
		MaxCurrent:       200,
		TemperatureMin:   -40,
		TemperatureMax:   125,
		DriverVersion:    1000,
	}
}
