package get_app_info

// GetAppInfoQuery asks for the decoded info.xml.
type GetAppInfoQuery struct{}

// Name returns the unique name of the query so that the CQRS bus can route it.
func (q GetAppInfoQuery) Name() string {
	return "GetAppInfo"
}
