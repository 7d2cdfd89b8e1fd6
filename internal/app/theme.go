package app

import "charm.land/lipgloss/v2"

var (
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activityStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true)
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	selectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236"))
	dividerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	successStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("29")).Bold(true)
	warningStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("136")).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("160")).Bold(true)
	dialogFrameStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("69")).
				Padding(0, 1)
)
