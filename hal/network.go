package hal

type nullNetwork struct{}

func (nullNetwork) Info() (NetInfo, bool) { return NetInfo{}, false }
func (nullNetwork) HardwareAddr() MAC     { return MAC{} }
