package repository

import (
	"time"

	"github.com/okian/eventwise/internal/domain/model"
)

// SampleEvents returns the built-in demo catalog.
func SampleEvents() []model.Event {
	return []model.Event{
		{
			ID:            "1",
			Title:         "Introduction to Artificial Intelligence",
			Description:   "Learn the fundamentals of AI and machine learning in this beginner-friendly workshop.",
			Date:          "2025-05-15",
			Time:          "14:00",
			Location:      "Science Building, Room 301",
			Category:      "Technology",
			Capacity:      50,
			Registered:    32,
			Tags:          []string{"AI", "Computer Science", "Workshop"},
			HasLivestream: true,
		},
		{
			ID:            "2",
			Title:         "Business Ethics Seminar",
			Description:   "Explore ethical dilemmas in modern business practices with industry experts.",
			Date:          "2025-05-20",
			Time:          "10:00",
			Location:      "Business School Auditorium",
			Category:      "Business",
			Capacity:      100,
			Registered:    45,
			Tags:          []string{"Ethics", "Business", "Seminar"},
			HasLivestream: true,
		},
		{
			ID:          "3",
			Title:       "Advanced Calculus Workshop",
			Description: "Deepen your understanding of calculus concepts and advanced problem-solving techniques.",
			Date:        "2025-05-25",
			Time:        "13:30",
			Location:    "Mathematics Department, Room 204",
			Category:    "Mathematics",
			Capacity:    30,
			Registered:  18,
			Tags:        []string{"Mathematics", "Calculus", "Workshop"},
		},
		{
			ID:            "4",
			Title:         "Psychology Research Presentation",
			Description:   "Join us for presentations from psychology researchers on their latest findings.",
			Date:          "2025-06-05",
			Time:          "15:00",
			Location:      "Psychology Building, Lecture Hall 2",
			Category:      "Psychology",
			Capacity:      80,
			Registered:    52,
			Tags:          []string{"Psychology", "Research", "Presentation"},
			HasLivestream: true,
		},
		{
			ID:          "5",
			Title:       "Environmental Science Field Trip",
			Description: "Explore local ecosystems and collect data for environmental research projects.",
			Date:        "2025-06-10",
			Time:        "09:00",
			Location:    "University Main Gate (Meeting Point)",
			Category:    "Environmental Science",
			Capacity:    20,
			Registered:  15,
			Tags:        []string{"Environmental Science", "Field Trip", "Research"},
		},
		{
			ID:            "6",
			Title:         "Literary Analysis Workshop",
			Description:   "Develop your critical analysis skills for fiction and poetry in this interactive workshop.",
			Date:          "2025-06-15",
			Time:          "14:30",
			Location:      "Liberal Arts Building, Room 108",
			Category:      "Literature",
			Capacity:      25,
			Registered:    12,
			Tags:          []string{"Literature", "English", "Workshop"},
			HasLivestream: true,
		},
	}
}

// SampleReviews returns the reviews that ship with the demo catalog.
func SampleReviews() []model.Review {
	day := func(s string) time.Time {
		t, _ := time.Parse(time.DateOnly, s)
		return t
	}
	return []model.Review{
		{
			ID: "1", EventID: "1", UserID: "101", UserName: "Emma Johnson", Rating: 5,
			Comment:   "The AI workshop was extremely informative. The professor explained complex concepts in a way that was easy to understand. Would highly recommend!",
			CreatedAt: day("2025-05-16"),
		},
		{
			ID: "2", EventID: "1", UserID: "102", UserName: "James Smith", Rating: 4,
			Comment:   "Great introduction to AI concepts. I wish we had more hands-on exercises, but overall it was very valuable.",
			CreatedAt: day("2025-05-16"),
		},
		{
			ID: "3", EventID: "2", UserID: "103", UserName: "Sophia Garcia", Rating: 5,
			Comment:   "The ethics seminar sparked important discussions about real-world business scenarios. I appreciated the diverse perspectives shared.",
			CreatedAt: day("2025-05-21"),
		},
		{
			ID: "4", EventID: "3", UserID: "104", UserName: "Liam Chen", Rating: 3,
			Comment:   "The content was very advanced. I think having some prerequisite materials would have helped me prepare better.",
			CreatedAt: day("2025-05-26"),
		},
	}
}

// SampleTranscript returns the demo transcript used by the smoke client.
func SampleTranscript() model.Transcript {
	return model.Transcript{Courses: []model.Course{
		{Code: "CS101", Name: "Introduction to Computer Science", Grade: "A"},
		{Code: "MATH202", Name: "Advanced Calculus", Grade: "B+"},
		{Code: "PSY110", Name: "Introduction to Psychology", Grade: "A-"},
		{Code: "BUS201", Name: "Business Ethics", Grade: "B"},
		{Code: "ENG240", Name: "Modern Literature", Grade: "A-"},
		{Code: "ENV150", Name: "Environmental Science", Grade: "B+"},
	}}
}
